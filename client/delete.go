package client

import (
	"context"
	"net/http"

	"github.com/gatewayadmin/admin-contract-tests/framework"
)

// DeleteOutcome classifies the response to a delete request.
type DeleteOutcome int

const (
	// Deleted means the gateway confirmed the deletion with a 2xx status.
	Deleted DeleteOutcome = iota

	// ToleratedNotFound means the resource did not exist. For a purge this is success.
	ToleratedNotFound

	// UnexpectedFailure means any other status. Callers decide whether that is fatal.
	UnexpectedFailure
)

func (o DeleteOutcome) String() string {
	switch o {
	case Deleted:
		return "deleted"
	case ToleratedNotFound:
		return "not found"
	default:
		return "unexpected failure"
	}
}

// DeleteResult is the outcome of a delete request along with the status that produced it.
type DeleteResult struct {
	Outcome DeleteOutcome
	Status  int
}

// ClassifyDeleteStatus maps an HTTP status to a DeleteOutcome.
func ClassifyDeleteStatus(status int) DeleteOutcome {
	switch {
	case status >= 200 && status < 300:
		return Deleted
	case status == http.StatusNotFound || status == http.StatusGone:
		return ToleratedNotFound
	default:
		return UnexpectedFailure
	}
}

// DeleteResource sends a delete request for one entity, addressed by name or ID. The error is
// non-nil only for transport failures; every HTTP status becomes a DeleteResult.
func (c *AdminClient) DeleteResource(
	ctx context.Context,
	collection, nameOrID string,
	logger framework.Logger,
) (DeleteResult, error) {
	resp, err := c.Do(ctx, Request{
		Method:          http.MethodDelete,
		Path:            EntityPath(collection, nameOrID),
		AcceptAnyStatus: true,
	}, logger)
	if err != nil {
		return DeleteResult{Outcome: UnexpectedFailure}, err
	}
	return DeleteResult{Outcome: ClassifyDeleteStatus(resp.Status), Status: resp.Status}, nil
}
