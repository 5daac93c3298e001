// Package model defines the provider-agnostic text generation interface
// that backs an agent's reasoning capability.
//
// A Model turns a Request (system instructions plus a role-tagged
// conversation) into a stream of Responses. Providers such as OpenAI and
// Anthropic live in sub-packages so callers only import the SDK they use.
// MockModel serves tests and the CLI's offline mode.
package model
