package port

import "iconfit/internal/core/domain"

type Reporter interface {
	// Report tells the operator how a job ended.
	Report(result domain.Result)
}
