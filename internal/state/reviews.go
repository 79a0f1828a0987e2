package state

import (
	"context"
	"log/slog"
	"sync"

	"github.com/five82/hearth/internal/rental"
)

// ReviewsSnapshot is a copy of the reviews state. Submission status is
// tracked apart from the fetch so posting never disturbs the list on screen.
type ReviewsSnapshot struct {
	Status       RequestStatus
	Err          string
	OfferID      string
	Reviews      []rental.Review
	SubmitStatus RequestStatus
	SubmitErr    string
}

// Reviews holds the reviews of the open offer and the state of the review
// form.
type Reviews struct {
	api    rental.API
	logger *slog.Logger

	mu      sync.RWMutex
	req     slot
	submit  slot
	offerID string
	reviews []rental.Review
}

func NewReviews(api rental.API, logger *slog.Logger) *Reviews {
	return &Reviews{api: api, logger: componentLogger(logger, "reviews")}
}

// FetchReviews loads the reviews of offer id.
func (r *Reviews) FetchReviews(ctx context.Context, id string) Call[Outcome] {
	r.mu.Lock()
	ctx, gen := r.req.begin(ctx)
	r.offerID = id
	r.mu.Unlock()

	return func() Outcome {
		reviews, err := r.api.FetchReviews(ctx, id)

		r.mu.Lock()
		defer r.mu.Unlock()
		outcome := r.req.settle(gen, err)
		switch outcome {
		case Done:
			r.reviews = cloneReviews(reviews)
		case Failed:
			r.req.fail(StatusError, string(fetchErrors(msgReviews).reject(err)))
			r.logger.Warn("fetch reviews failed", "id", id, "error", err)
		}
		return outcome
	}
}

// SubmitReview posts draft. On success the created review is appended to
// the end of the list when it belongs to the offer being shown. A 401
// yields RejectUnauthorized. Only one submission runs at a time.
func (r *Reviews) SubmitReview(ctx context.Context, draft rental.ReviewDraft) Call[error] {
	r.mu.Lock()
	if r.submit.status == StatusLoading {
		r.mu.Unlock()
		return resolved[error](Rejection(msgSubmitPending))
	}
	ctx, gen := r.submit.begin(ctx)
	r.mu.Unlock()

	return func() error {
		review, err := r.api.PostReview(ctx, draft)

		r.mu.Lock()
		defer r.mu.Unlock()
		switch r.submit.settle(gen, err) {
		case Cancelled:
			return context.Canceled
		case Failed:
			msg := commentErrors.reject(err)
			r.submit.fail(StatusError, string(msg))
			r.logger.Warn("post review failed", "id", draft.OfferID, "error", err)
			return msg
		}
		if r.offerID == draft.OfferID {
			r.reviews = append(r.reviews, review)
		}
		r.logger.Info("review posted", "id", draft.OfferID, "review", review.ID)
		return nil
	}
}

// DropReviews resets the store, submission state included.
func (r *Reviews) DropReviews() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.req.reset()
	r.submit.reset()
	r.offerID = ""
	r.reviews = nil
}

// DropSubmissionStatus clears only the submission status and error. It has
// no effect while a submission is in flight.
func (r *Reviews) DropSubmissionStatus() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.submit.status == StatusLoading {
		return
	}
	r.submit.status = StatusIdle
	r.submit.err = ""
}

func (r *Reviews) Snapshot() ReviewsSnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return ReviewsSnapshot{
		Status:       r.req.status,
		Err:          r.req.err,
		OfferID:      r.offerID,
		Reviews:      cloneReviews(r.reviews),
		SubmitStatus: r.submit.status,
		SubmitErr:    r.submit.err,
	}
}

// Recent returns the held reviews newest first, at most ten.
func (r *Reviews) Recent() []rental.Review {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return RecentReviews(r.reviews)
}
