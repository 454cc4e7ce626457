// SPDX-License-Identifier: GPL-3.0-or-later
package imapconnection

import (
	"context"
	"io/ioutil"
	"time"

	"github.com/sirupsen/logrus"
)

func nullLogger() *logrus.Logger {
	l := logrus.New()
	l.Out = ioutil.Discard
	return l
}

type recordedSleeps struct {
	durations []time.Duration
	err       error
}

func (r *recordedSleeps) sleep(ctx context.Context, d time.Duration) error {
	r.durations = append(r.durations, d)
	return r.err
}
