package service

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5"

	"github.com/e-wheels/workshop-service/pkg/errorutil"
)

// mapStoreErr translates raw store errors into the typed taxonomy: missing
// rows become NotFound for the named resource, everything else becomes a
// PersistenceError. DomainErrors pass through untouched.
func mapStoreErr(err error, resource string) error {
	if err == nil {
		return nil
	}
	var domainErr *errorutil.DomainError
	if errors.As(err, &domainErr) {
		return err
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return errorutil.NewNotFound(resource, nil)
	}
	return errorutil.NewPersistenceError(err)
}

// newWriteConflict reports a lost optimistic-concurrency race: the entity's
// status changed between this writer's read and its conditional write.
// Nothing was committed, so the caller may simply re-read and retry.
func newWriteConflict(entity string) error {
	return errorutil.NewDomainError(
		errorutil.CodePersistence,
		entity+" was modified concurrently, no changes were saved",
		http.StatusConflict,
		map[string]any{"entity": entity},
	)
}
