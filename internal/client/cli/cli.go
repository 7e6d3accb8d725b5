package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/iudanet/medsync/internal/client/coordinator"
	"github.com/iudanet/medsync/internal/client/iocli"
	"github.com/iudanet/medsync/internal/client/listener"
	"github.com/iudanet/medsync/internal/client/session"
	"github.com/iudanet/medsync/internal/client/updatelog"
	"github.com/iudanet/medsync/internal/models"
)

// Cli связывает команды терминала с библиотекой синхронизации
type Cli struct {
	io          iocli.IO
	coordinator *coordinator.Coordinator
	listener    *listener.Listener
	updateLog   *updatelog.Log
	sessions    *session.Store
}

// New creates a new CLI facade
func New(io iocli.IO, coord *coordinator.Coordinator, lst *listener.Listener, log *updatelog.Log, sessions *session.Store) *Cli {
	return &Cli{
		io:          io,
		coordinator: coord,
		listener:    lst,
		updateLog:   log,
		sessions:    sessions,
	}
}

// PrintUsage выводит справку по командам
func (c *Cli) PrintUsage() {
	c.io.Println("Usage: medsync [flags] <command> [args]")
	c.io.Println("")
	c.io.Println("Commands:")
	c.io.Println("  login                        store an API token for authenticated requests")
	c.io.Println("  logout                       remove the stored API token")
	c.io.Println("  get <patient-id> [--force]   show a patient record (cache or backend)")
	c.io.Println("  set-email <patient-id> <email>  update a patient email")
	c.io.Println("  invalidate <patient-id>      drop a patient from the cache")
	c.io.Println("  watch <duration>             follow external updates, e.g. 'watch 2m'")
	c.io.Println("  purge                        remove update log entries older than 24h")
}

// RunLogin запрашивает API токен и сохраняет его в сессии
func (c *Cli) RunLogin(ctx context.Context) error {
	token, err := c.io.ReadPassword("API token: ")
	if err != nil {
		return fmt.Errorf("failed to read token: %w", err)
	}
	if token == "" {
		return fmt.Errorf("token cannot be empty")
	}

	if err := c.sessions.SaveTokens(ctx, &session.Tokens{AccessToken: token}); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	c.io.Println("Token stored.")
	return nil
}

// RunLogout удаляет сохраненный токен
func (c *Cli) RunLogout(ctx context.Context) error {
	if err := c.sessions.DeleteTokens(ctx); err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	c.io.Println("Token removed.")
	return nil
}

// RunGet показывает запись пациента
func (c *Cli) RunGet(ctx context.Context, patientID string, force bool) error {
	record, err := c.coordinator.GetPatientData(ctx, patientID, force)
	if err != nil {
		return err
	}
	if record == nil {
		c.io.Printf("Patient %s not found.\n", patientID)
		return nil
	}

	c.printRecord(record)
	return nil
}

// RunSetEmail обновляет email пациента через write-путь координатора
func (c *Cli) RunSetEmail(ctx context.Context, patientID, email, actingUser string) error {
	patch := &models.PatientPatch{Email: models.String(email)}
	if err := c.coordinator.OnPatientProfileUpdated(ctx, patientID, patch, actingUser); err != nil {
		return err
	}
	c.io.Printf("Patient %s updated.\n", patientID)
	return nil
}

// RunInvalidate сбрасывает запись пациента в кэше
func (c *Cli) RunInvalidate(ctx context.Context, patientID string) error {
	c.coordinator.InvalidatePatientCache(patientID)
	c.io.Printf("Cache invalidated for patient %s.\n", patientID)
	return nil
}

// RunWatch следит за внешними обновлениями заданное время
func (c *Cli) RunWatch(ctx context.Context, duration time.Duration) error {
	unsubscribe := c.coordinator.Subscribe(models.EventPatientProfileUpdated, func(event *models.SyncEvent) {
		c.io.Printf("[%s] patient %s updated by %s\n",
			event.Timestamp.Format(time.TimeOnly), event.PatientID, event.TriggeredBy)
	})
	defer unsubscribe()

	watchCtx, cancel := context.WithTimeout(ctx, duration)
	defer cancel()

	c.listener.Start(watchCtx, nil)
	defer c.listener.Stop()

	c.io.Printf("Watching for updates for %s...\n", duration)
	<-watchCtx.Done()

	updates := c.listener.RecentUpdates()
	if len(updates) == 0 {
		c.io.Println("No external updates observed.")
		return nil
	}

	c.io.Printf("Observed %d update(s):\n", len(updates))
	for _, entry := range updates {
		c.io.Printf("  %s  patient %s\n", entry.Timestamp.Format(time.RFC3339), entry.PatientID)
	}
	return nil
}

// RunPurge вычищает устаревшие записи лога обновлений
func (c *Cli) RunPurge(ctx context.Context) error {
	removed := c.updateLog.PurgeOlderThan(ctx, updatelog.DefaultMaxAge)
	c.io.Printf("Removed %d stale update log entries.\n", removed)
	return nil
}

// printRecord печатает запись пациента в терминал
func (c *Cli) printRecord(record *models.PatientRecord) {
	c.io.Printf("Patient:       %s\n", record.ID)
	c.io.Printf("Name:          %s %s\n", record.FirstName, record.LastName)
	c.io.Printf("Email:         %s\n", record.Email)
	if record.Phone != "" {
		c.io.Printf("Phone:         %s\n", record.Phone)
	}
	if record.DateOfBirth != "" {
		c.io.Printf("Date of birth: %s (age %d)\n", record.DateOfBirth, record.Age)
	}
	c.io.Printf("Last updated:  %s\n", record.LastUpdated.Format(time.RFC3339))
	c.io.Printf("Checksum:      %s\n", record.SyncChecksum)
}
