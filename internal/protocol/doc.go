// Package protocol defines the wire contract of the guidance session
// channel: the client and server message envelopes and the renderer step
// union.
//
// Steps and server messages are closed tagged unions. Each variant carries
// a fixed `type` discriminator and the set of variants is sealed behind an
// unexported interface method, so adding a step kind forces every switch
// over the union to be revisited at compile time.
package protocol
