// Package domain defines domain-level errors for the riskanalysis feature.
package domain

import "errors"

// Caller-visible failure conditions of a risk analysis request.
// Upper layers match them with errors.Is and map them to responses.
var (
	// ErrNoTicker is returned when the request carries no ticker symbol.
	ErrNoTicker = errors.New("no ticker provided")

	// ErrDataUnavailable covers every reason a usable feature record could not be built:
	// provider failures, empty or malformed series, too few bars and undefined indicators.
	ErrDataUnavailable = errors.New("could not fetch stock data")

	// ErrModelUnavailable indicates that no classifier artifact is loaded.
	ErrModelUnavailable = errors.New("model not loaded")
)

// Internal causes. They are wrapped into ErrDataUnavailable before reaching the transport layer,
// except ErrFeatureMismatch and ErrInvalidProbabilities which surface as unexpected failures.
var (
	// ErrInvalidSeries indicates a price series that breaks the ordering invariant (duplicate dates).
	ErrInvalidSeries = errors.New("invalid price series")

	// ErrInsufficientBars indicates a series shorter than the indicator warm-up.
	ErrInsufficientBars = errors.New("insufficient price history")

	// ErrUndefinedIndicator indicates an undefined (NaN/Inf) indicator at the evaluation bar.
	ErrUndefinedIndicator = errors.New("indicator undefined at latest bar")

	// ErrFeatureMismatch indicates that the classifier expects features the record cannot supply.
	ErrFeatureMismatch = errors.New("feature names do not match model contract")

	// ErrInvalidProbabilities indicates a classifier output that is not a distribution over the risk classes.
	ErrInvalidProbabilities = errors.New("invalid class probabilities")
)
