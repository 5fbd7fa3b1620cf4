// Package log builds slog loggers that never print secrets.
//
// SecureHandler wraps any slog.Handler and masks attribute values before
// they reach it:
//   - attributes whose key names a credential (cookie, authorization, token)
//   - string values that look like one (bearer and basic credentials, JWTs)
//   - http.Header values, header by header
//   - credential parameters in URL query strings (api_key, sk, token)
//
// Request headers given with -H are logged at debug level, which is where
// a session cookie would otherwise leak.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	logger.Debug("request", "headers", req.Header)
package log
