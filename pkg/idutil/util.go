package idutil

import (
	"crypto/rand"
	"math/big"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
)

var node *snowflake.Node

func init() {
	n, err := rand.Int(rand.Reader, big.NewInt(1<<snowflake.NodeBits))
	if err != nil {
		panic(err)
	}

	node, err = snowflake.NewNode(n.Int64())
	if err != nil {
		panic(err)
	}
}

// NewSnowflake returns a time ordered id, used for append-only records.
func NewSnowflake() string {
	return node.Generate().String()
}

// SnowflakeTime returns the generation time of a snowflake id.
func SnowflakeTime(id string) (time.Time, error) {
	sID, err := snowflake.ParseString(id)
	if err != nil {
		return time.Time{}, err
	}

	return time.UnixMilli(sID.Time()), nil
}

func NewUUID() string {
	return uuid.NewString()
}
