package common

import (
	"os"
	"strings"
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/spf13/cast"
)

const (
	ENABLED  = "enabled"
	DISABLED = "disabled"
)

var (
	idNode     *snowflake.Node
	idNodeOnce sync.Once
)

// NextID returns a new snowflake int64 identifier. The node number can be
// overridden with STOCKMATE_NODE_ID when multiple instances share a database.
func NextID() int64 {
	idNodeOnce.Do(func() {
		node := cast.ToInt64(os.Getenv("STOCKMATE_NODE_ID"))
		if node <= 0 || node > 1023 {
			node = 1
		}
		n, err := snowflake.NewNode(node)
		if err != nil {
			panic(err)
		}
		idNode = n
	})
	return idNode.Generate().Int64()
}

// TrimAll trims surrounding whitespace from every element and drops empties.
func TrimAll(values []string) []string {
	result := make([]string, 0, len(values))
	for _, v := range values {
		if t := strings.TrimSpace(v); t != "" {
			result = append(result, t)
		}
	}
	return result
}
