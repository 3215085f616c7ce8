package pkg

import (
	"fmt"
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	node   *snowflake.Node
	nodeID int64
	nodeMu sync.Mutex
)

// InitID 初始化 snowflake 节点，多实例部署时 nodeID 需不同；已用其他节点生成过 id 时报错
func InitID(id int64) error {
	nodeMu.Lock()
	defer nodeMu.Unlock()
	if node != nil {
		if nodeID != id {
			return fmt.Errorf("snowflake node already set to %d", nodeID)
		}
		return nil
	}
	n, err := snowflake.NewNode(id)
	if err != nil {
		return err
	}
	node, nodeID = n, id
	return nil
}

// NewID 按时间递增，未初始化时退回节点 1
func NewID() uint64 {
	nodeMu.Lock()
	if node == nil {
		node, _ = snowflake.NewNode(1)
		nodeID = 1
	}
	n := node
	nodeMu.Unlock()
	return uint64(n.Generate().Int64())
}
