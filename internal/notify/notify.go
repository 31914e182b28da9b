// Package notify provides cross-platform desktop notifications for run
// completion. It uses github.com/gen2brain/beeep for cross-platform support.
package notify

import (
	"fmt"
	"sync"

	"github.com/gen2brain/beeep"

	"github.com/spl-lab/spl-workbench/internal/logging"
)

// Notifier sends desktop notifications when tool runs finish. Simulation runs
// take long enough that the user is usually looking at something else.
type Notifier struct {
	logger  *logging.Logger
	enabled bool
	mu      sync.RWMutex
}

// NewNotifier creates a notifier. A nil logger disables failure logging.
func NewNotifier(logger *logging.Logger, enabled bool) *Notifier {
	return &Notifier{
		logger:  logger,
		enabled: enabled,
	}
}

// SetEnabled enables or disables notifications.
func (n *Notifier) SetEnabled(enabled bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.enabled = enabled
}

// IsEnabled returns whether notifications are enabled.
func (n *Notifier) IsEnabled() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.enabled
}

// RunSucceeded sends a notification for a successfully completed run.
func (n *Notifier) RunSucceeded(tool string) {
	if !n.IsEnabled() {
		return
	}

	title := "SPL Workbench"
	message := fmt.Sprintf("%s run finished.", toolLabel(tool))

	if err := n.send(title, message); err != nil {
		n.warn(err, tool, "Failed to send run succeeded notification")
	}
}

// RunFailed sends a notification for a failed run.
func (n *Notifier) RunFailed(tool string, exitCode int) {
	if !n.IsEnabled() {
		return
	}

	title := "SPL Workbench"
	message := fmt.Sprintf("%s run failed with exit code %d.", toolLabel(tool), exitCode)

	// beeep.Alert shows a more prominent notification on some platforms.
	if err := beeep.Alert(title, message, ""); err != nil {
		if err := n.send(title, message); err != nil {
			n.warn(err, tool, "Failed to send run failed notification")
		}
	}
}

// RunCancelled sends a notification for a cancelled run.
func (n *Notifier) RunCancelled(tool string) {
	if !n.IsEnabled() {
		return
	}

	title := "SPL Workbench"
	message := fmt.Sprintf("%s run cancelled.", toolLabel(tool))

	if err := n.send(title, message); err != nil {
		n.warn(err, tool, "Failed to send run cancelled notification")
	}
}

// send is the internal method that actually sends the notification.
func (n *Notifier) send(title, message string) error {
	// beeep.Notify is cross-platform:
	// - Windows: Uses toast notifications
	// - macOS: Uses NSUserNotificationCenter
	// - Linux: Uses D-Bus notifications
	return beeep.Notify(title, message, "")
}

func (n *Notifier) warn(err error, tool, msg string) {
	if n.logger == nil {
		return
	}
	n.logger.Warn().Err(err).Str("tool", tool).Msg(msg)
}

// toolLabel maps internal tool names to what the UI calls them.
func toolLabel(tool string) string {
	switch tool {
	case "mask":
		return "Mask generation"
	case "ifunc":
		return "Influence function generation"
	case "simulation":
		return "Simulation"
	case "fringes":
		return "Fringe extraction"
	case "analyze":
		return "Analysis"
	case "cube":
		return "Cube conversion"
	default:
		return tool
	}
}
