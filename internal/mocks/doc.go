// Package mocks provides hand-written test doubles for the pipeline's
// boundaries: the due task reader, the text generator and the email sender.
// Each mock records its calls and can be scripted with a function field.
package mocks
