package fetcher

import (
	"context"
	"net/http"

	"github.com/findable-ai/findable-score/pkg/failure"
	"github.com/findable-ai/findable-score/pkg/retry"
)

type Fetcher interface {
	Init(httpClient *http.Client)
	Fetch(
		ctx context.Context,
		crawlDepth int,
		fetchParam FetchParam,
		retryParam retry.RetryParam,
	) (FetchResult, failure.ClassifiedError)
}
