// Package generation turns a batch of due tasks into a prompt for a language
// model and collects the single supplementary note that is shared by every
// reminder in the batch. The model itself sits behind the Generator interface;
// the Gemini adapter lives in internal/platform/gemini.
package generation
