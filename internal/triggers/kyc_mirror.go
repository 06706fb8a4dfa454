package triggers

import (
	"context"
	"fmt"
	"time"

	"nestbay/pkg/events"
	"nestbay/pkg/logger"
	"nestbay/pkg/model"
)

// ProfileMirror writes a verification outcome onto the profile record.
type ProfileMirror interface {
	UpdateKYCStatus(ctx context.Context, userID string, status string, updatedAt time.Time) (bool, error)
}

// KYCMirrorHandler keeps profile.kyc_status in lockstep with the
// user's KYC request. A new submission marks the profile pending; a
// review copies the decided status verbatim.
type KYCMirrorHandler struct {
	profiles ProfileMirror
	log      *logger.Logger
	now      func() time.Time
}

func NewKYCMirrorHandler(profiles ProfileMirror, log *logger.Logger) *KYCMirrorHandler {
	return &KYCMirrorHandler{
		profiles: profiles,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (h *KYCMirrorHandler) Handle(ctx context.Context, change events.DocumentChange) error {
	var after model.KYCRequest
	if err := change.DecodeAfter(&after); err != nil {
		return fmt.Errorf("failed to decode KYC snapshot: %w", err)
	}
	if after.UserID == "" {
		h.log.Warn("KYC change without user reference, skipping", "document_id", change.DocumentID)
		return nil
	}

	status := after.Status
	if change.Event == events.EventCreated {
		status = model.KYCPending
	} else {
		var before model.KYCRequest
		if err := change.DecodeBefore(&before); err != nil {
			return fmt.Errorf("failed to decode previous KYC snapshot: %w", err)
		}
		// Note edits and reviewer reassignment must not rewrite the
		// profile.
		if before.Status == after.Status {
			return nil
		}
	}

	matched, err := h.profiles.UpdateKYCStatus(ctx, after.UserID, status, h.now())
	if err != nil {
		return fmt.Errorf("failed to mirror kyc status for user %s: %w", after.UserID, err)
	}
	if !matched {
		h.log.Warn("No profile to mirror KYC status onto", "user_id", after.UserID)
		return nil
	}

	h.log.Info("Profile KYC status mirrored", "user_id", after.UserID, "status", status)
	return nil
}
