package roadmap

import "github.com/sirupsen/logrus"

var log = logrus.WithField("module", "roadmap")
