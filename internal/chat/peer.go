//go:generate go run go.uber.org/mock/mockgen -source=peer.go -destination=mocks/mock_peer.go -package=mocks
package chat

// Peer is a registered, named receiver of chat lines.
// Send must be safe for concurrent use and must not block on the network.
type Peer interface {
	ID() string
	Name() string
	Send(line string) error
}
