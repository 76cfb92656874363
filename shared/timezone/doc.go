// Package timezone provides timezone utilities for the application.
//
// Usage Examples:
//
//  1. Initialize once at startup:
//     timezone.Init(cfg.App.Timezone)
//
//  2. Basic usage after initialization:
//     now := timezone.Now()                    // Get current time in app timezone
//     today := timezone.Today()                // Midnight of the current day
//     appTime := timezone.ToAppTime(someTime)  // Convert any time to app timezone
//
//  3. Parsing dates in app timezone:
//     t, err := timezone.Parse("2006-01-02", "2024-01-01")
//
// Supported timezone formats:
// - Standard timezone names only: "UTC", "Asia/Jakarta", "America/New_York", "Europe/London"
//
// The timezone is configured via the APP_TIMEZONE environment variable. Before Init is called
// every helper works in UTC. Due dates are compared against Today, so the configured zone decides
// when a todo becomes overdue.
package timezone
