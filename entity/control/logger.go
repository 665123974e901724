package control

import "github.com/sirupsen/logrus"

// log 控制模块的日志记录器
var log = logrus.WithField("module", "control")
