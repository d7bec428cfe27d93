// Package logger wraps zap behind a small context-first API:
//   - a global sugared logger with a console encoder,
//   - context helpers (ToContext/FromContext/WithName/WithKV),
//   - level parsing and runtime level changes,
//   - convenience functions (Infof, ErrorKV, etc.).
//
// Services accept a context and log through it, so a component name set
// once at startup scopes every line that component writes.
package logger
