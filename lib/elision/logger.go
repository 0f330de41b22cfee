package elision

import (
	"github.com/lni/dragonboat/v4/logger"
)

// plog is the package logger. The CLI configures its level and format
// via cmd/util; library consumers get the dragonboat default factory.
var plog = logger.GetLogger("elision")
