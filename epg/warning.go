// SPDX-License-Identifier: MIT

package epg

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// WarningKind classifies a non-fatal numerical condition.
type WarningKind string

const (
	// WarnIllConditioned reports a matrix exponential whose scaling exceeded
	// the squaring budget. The best-effort result was kept.
	WarnIllConditioned WarningKind = "ill_conditioned"

	// WarnTruncation reports that the magnitude discarded beyond MaxOrder
	// exceeded the truncation tolerance.
	WarnTruncation WarningKind = "truncation"
)

// Warning is a non-fatal numerical-instability notice.
type Warning struct {
	Kind     WarningKind
	Operator string
	Detail   string
	Value    float64
}

func (w Warning) String() string {
	return fmt.Sprintf("epg: %s in %s: %s (%g)", w.Kind, w.Operator, w.Detail, w.Value)
}

// WarnFunc receives warnings emitted while operators run.
type WarnFunc func(Warning)

// LogWarnings returns a WarnFunc that logs every warning at Warn level on entry.
func LogWarnings(entry *logrus.Entry) WarnFunc {
	return func(w Warning) {
		entry.WithFields(logrus.Fields{
			"kind":     string(w.Kind),
			"operator": w.Operator,
			"value":    w.Value,
		}).Warn(w.Detail)
	}
}

var defaultWarnFunc = LogWarnings(logrus.NewEntry(logrus.StandardLogger()).WithField("component", "epg"))
