package utils

import (
	"GoOss/config"
	"log"
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	idNode     *snowflake.Node
	idNodeOnce sync.Once
)

// InitIdWorker initializes the snowflake node used for all row ids. Ids are
// unique and roughly time-ordered, which keeps date-sharded paths and URLs
// sortable.
func InitIdWorker() {
	idNodeOnce.Do(func() {
		node, err := snowflake.NewNode(config.AppConfig.SnowflakeNode)
		if err != nil {
			log.Fatal("init id worker fail", err)
		}
		idNode = node
	})
}

// NextID returns the next unique id.
func NextID() uint64 {
	if idNode == nil {
		InitIdWorker()
	}
	return uint64(idNode.Generate().Int64())
}
