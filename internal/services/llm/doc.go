// Package llm provides an OpenRouter chat client used for file
// classification.
//
// The client sends a structured prompt requesting JSON output and returns the
// raw payload; the classify package adapts that payload into its canonical
// record shape. Requires api_key and model, optionally base_url, referer,
// title, and timeout. When unconfigured, callers fall back to the rule
// engine.
//
// # Entry Points
//
// NewClient: construct a client from Config.
// Client.CompleteJSON: send system/user prompts, receive a JSON response.
// Client.HealthCheck: verify the API key and model are usable.
// ExtractJSON / DecodeLLMJSON: recover JSON from fenced or chatty responses.
//
// # Retry Behaviour
//
// The client retries on HTTP 408/429/5xx errors and network timeouts with
// exponential backoff (base 1s, max 10s, up to 5 attempts by default).
// Context cancellation aborts retries immediately.
package llm
