// Package model defines the provider-agnostic abstractions for talking to
// language models.
//
// Providers (OpenAI compatible endpoints, Anthropic, the offline MockModel)
// implement Model, a single channel based Generate call that covers both
// streaming and non-streaming generation. Executors never use Model directly;
// they depend on the two capability interfaces:
//
//   - TextCompletionService: one request, one complete answer
//   - StreamingTextService: one request, a lazy ordered sequence of chunks
//
// NewClient adapts any Model to both capabilities. NewRateLimited optionally
// throttles a Model before it is adapted.
package model
