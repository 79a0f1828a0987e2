// Package app is the composition root of hearth.
//
// # Overview
//
// Run wires configuration, logging, the token file, the rental HTTP client,
// the state stores and the UI together, then blocks in the TUI until the
// user quits or the context is cancelled.
//
// # Startup
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()        Read config.toml, .env and env vars
//	       ├─────> prefs.Load()         Theme, city and sort order
//	       ├─────> logging.Open()       tint lines appended to hearth.log
//	       ├─────> token.NewFile()      Bearer token persisted between runs
//	       ├─────> rental.NewClient()   HTTP client for the rental backend
//	       ├─────> state.New()          The six stores
//	       ├─────> startBootstrap()     Session check + offers, then favorites
//	       ├─────> StartRefresher()     Periodic catalog reload
//	       └─────> ui.Run()             Start TUI (blocks)
//
// The bootstrap applies its loading transitions before the UI starts, so
// the first frame already shows spinners instead of empty lists. The
// session check and the offer list load concurrently; favorites follow
// only when the session check reports a signed-in user.
//
// # Refreshing
//
// The refresher reloads the catalog every refresh_every (default two
// minutes; zero disables it). After a failure it retries on a doubling
// schedule starting at two seconds, capped at 30 seconds and never longer
// than the regular interval. A fetch that is already loading is skipped
// rather than superseded.
//
// # Error Handling
//
// Run fails only on setup problems: an invalid config file, an unwritable
// log or token directory, or a malformed API URL. Backend failures after
// startup end up in the stores and are shown by the UI.
package app
