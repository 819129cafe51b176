package app

import (
	"github.com/coreos/go-systemd/v22/daemon"

	logx "qotd/pkg/logx"
)

const (
	sdReady    = daemon.SdNotifyReady
	sdStopping = daemon.SdNotifyStopping
)

// sdNotify reports state to systemd. Outside systemd ($NOTIFY_SOCKET unset)
// it does nothing.
func sdNotify(log logx.Logger) func(state string) {
	return func(state string) {
		sent, err := daemon.SdNotify(false, state)
		switch {
		case err != nil:
			log.Warn("sd_notify failed", logx.String("state", state), logx.Err(err))
		case sent:
			log.Debug("sd_notify sent", logx.String("state", state))
		}
	}
}
