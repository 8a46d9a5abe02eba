package resilience_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonwraymond/healthgate/resilience"
)

func ExampleBreakerSet() {
	set := resilience.NewBreakerSet(resilience.BreakerConfig{MaxFailures: 2})
	unreachable := errors.New("dial tcp: connection refused")

	for i := 0; i < 3; i++ {
		err := set.Get("node-2").Execute(context.Background(), func(context.Context) error {
			return unreachable
		})
		fmt.Println(err)
	}
	fmt.Println(set.Get("node-2").State())
	// Output:
	// dial tcp: connection refused
	// dial tcp: connection refused
	// resilience: circuit breaker is open
	// open
}
