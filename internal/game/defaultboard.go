package game

import (
	_ "embed"
	"os"
)

//go:embed board.json
var defaultBoardJSON []byte

// DefaultBoard returns the board shipped with the binary. It is validated at
// load like any other board; an error here means the embedded asset is
// broken.
func DefaultBoard() (*Board, error) {
	return LoadBoard(defaultBoardJSON)
}

// BoardFromFile loads a board document from disk, for deployments that ship
// their own layout.
func BoardFromFile(path string) (*Board, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return LoadBoard(data)
}
