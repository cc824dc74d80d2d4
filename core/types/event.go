package types

// Event is the rendered form of an emitted staking event: a type tag plus
// flat string attributes, addresses bech32-encoded and amounts in decimal.
type Event struct {
	Type       string            `json:"type"`
	Attributes map[string]string `json:"attributes"`
}
