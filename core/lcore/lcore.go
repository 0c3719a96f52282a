// Package lcore runs worker goroutines bound to logical CPU cores.
package lcore

import (
	"strconv"

	"github.com/usnistgov/parhisto/core/logging"
	"go.uber.org/zap"
)

var logger = logging.New("lcore")

// LCore represents a logical CPU core.
// Zero value is an invalid LCore.
type LCore struct {
	v int // lcore ID + 1
}

// LCoreFromID converts lcore ID to LCore.
// Negative ID yields an invalid LCore.
func LCoreFromID(id int) (lc LCore) {
	if id < 0 {
		return LCore{}
	}
	return LCore{id + 1}
}

// ID returns lcore ID, or -1 if invalid.
func (lc LCore) ID() int {
	return lc.v - 1
}

// Valid determines whether lc is valid.
func (lc LCore) Valid() bool {
	return lc.v > 0
}

func (lc LCore) String() string {
	if !lc.Valid() {
		return "invalid"
	}
	return strconv.Itoa(lc.ID())
}

// ZapField returns a zap.Field for logging.
func (lc LCore) ZapField(key string) zap.Field {
	if !lc.Valid() {
		return zap.String(key, "invalid")
	}
	return zap.Int(key, lc.ID())
}

// LCores is a list of LCore.
type LCores []LCore

// IDs returns lcore IDs.
func (lcs LCores) IDs() (list []int) {
	for _, lc := range lcs {
		list = append(list, lc.ID())
	}
	return list
}
