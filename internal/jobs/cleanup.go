package jobs

import (
	"log"
	"time"

	"github.com/mec-app/mec-backend/internal/services"
)

// CleanupJob periodically sweeps expired OTP records out of the in-memory
// store. Verification already drops expired records lazily; the sweep keeps
// abandoned entries from accumulating.
type CleanupJob struct {
	otpStore services.OTPStore
	interval time.Duration
	stop     chan struct{}
}

// NewCleanupJob creates a cleanup job for the given OTP store
func NewCleanupJob(otpStore services.OTPStore, interval time.Duration) *CleanupJob {
	return &CleanupJob{
		otpStore: otpStore,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

// Start begins the sweep loop
func (j *CleanupJob) Start() {
	log.Printf("Starting OTP cleanup job (every %v)", j.interval)

	go func() {
		ticker := time.NewTicker(j.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				j.otpStore.SweepExpired()
			case <-j.stop:
				return
			}
		}
	}()
}

// Stop halts the sweep loop
func (j *CleanupJob) Stop() {
	log.Println("Stopping OTP cleanup job...")
	close(j.stop)
}
