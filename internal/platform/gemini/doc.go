// Package gemini implements generation.Generator on Google's Gemini API via
// the google.golang.org/genai client. It sends a single text prompt and
// returns the model's trimmed reply, translating empty replies and safety
// blocks into the generation package's sentinel errors.
package gemini
