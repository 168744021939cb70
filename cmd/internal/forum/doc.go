// Package forum implements the Clubhouse message board.
//
// Posting and deleting are gated on the caller's authorization decision;
// listing is public. Author attribution is stored with every message, but
// whether it is shown is the presentation layer's call (club members see
// authors, anonymous visitors do not).
package forum
