package quoteflow

import (
	"context"
	"time"
)

// showNotificationLocked replaces any visible notification and starts the
// task that fades and then clears it.
func (f *Flow) showNotificationLocked(message string) {
	if f.noticeCancel != nil {
		f.noticeCancel()
	}

	ctx, cancel := context.WithCancel(f.ctx)
	f.noticeCancel = cancel
	f.noticeID++
	f.notice = Notification{Message: message, Visible: true}

	id := f.noticeID

	f.tasks.Add(1)

	go func() {
		defer f.tasks.Done()
		defer cancel()

		f.runNotification(ctx, id)
	}()
}

func (f *Flow) runNotification(ctx context.Context, id uint64) {
	if !sleep(ctx, f.cfg.FadeAfter) {
		return
	}

	f.updateNotification(id, func() {
		f.notice.Fading = true
	})

	if !sleep(ctx, f.cfg.ClearAfter-f.cfg.FadeAfter) {
		return
	}

	f.updateNotification(id, func() {
		f.notice = Notification{}
		if f.state == StateSucceeded {
			f.state = StateIdle
		}
	})
}

func (f *Flow) updateNotification(id uint64, apply func()) {
	f.mu.Lock()

	if f.closed || f.noticeID != id {
		f.mu.Unlock()
		return
	}

	apply()
	snap := f.publishLocked()
	f.mu.Unlock()

	f.changed(snap)
}

// sleep waits for d and reports false if ctx ended first.
func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
