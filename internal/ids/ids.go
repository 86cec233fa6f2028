// Package ids issues identifiers for invoice items and export jobs.
package ids

import (
	"github.com/bwmarrin/snowflake"
	"github.com/oklog/ulid/v2"
	"go.uber.org/fx"
)

const itemPrefix = "item-"

var Module = fx.Module("ids",
	fx.Provide(
		RegisterSnowflake,
		NewGenerator,
	),
)

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}

// Generator issues item ids from a snowflake node. Ids are unique within
// the process and sort by creation time.
type Generator struct {
	node *snowflake.Node
}

func NewGenerator(node *snowflake.Node) *Generator {
	return &Generator{node: node}
}

// NewItemID returns an id such as "item-1780000000000000000".
func (g *Generator) NewItemID() string {
	return itemPrefix + g.node.Generate().String()
}

// NewJobID returns a ULID for export jobs.
func NewJobID() string {
	return ulid.Make().String()
}
