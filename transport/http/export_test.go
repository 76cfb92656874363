package http

func (h *HTTP) SetState(state ServerState) {
	h.setState(state)
}
