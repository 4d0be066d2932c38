package closer

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

const allClosed = -1

// Closer shuts registered resources down in reverse registration order.
type Closer struct {
	funcs         []Func
	mu            sync.Mutex
	once          sync.Once
	forcedTimeout time.Duration
}

type Func func(ctx context.Context) error

// New returns a Closer. forcedTimeout bounds the parallel forced close that
// runs for whatever is left once the Close context expires.
func New(forcedTimeout time.Duration) *Closer {
	if forcedTimeout == 0 {
		forcedTimeout = 2 * time.Second
	}
	return &Closer{forcedTimeout: forcedTimeout}
}

func (c *Closer) Add(f Func) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.funcs = append(c.funcs, f)
}

// AddErr registers a plain Close method.
func (c *Closer) AddErr(f func() error) {
	c.Add(func(context.Context) error { return f() })
}

// Close runs every func once, LIFO. Later calls return nil.
func (c *Closer) Close(ctx context.Context) error {
	var err error
	c.once.Do(func() {
		c.mu.Lock()
		funcs := c.funcs
		c.mu.Unlock()

		stopIdx, errs := c.closeInOrder(ctx, funcs)
		if stopIdx == allClosed {
			if len(errs) > 0 {
				err = fmt.Errorf("shutdown finished with errors:\n%s", strings.Join(errs, "\n"))
			}
			return
		}

		errs = append(errs, c.forceClose(funcs[:stopIdx+1])...)
		err = fmt.Errorf("shutdown interrupted after %d/%d funcs:\n%s",
			len(funcs)-1-stopIdx, len(funcs), strings.Join(errs, "\n"))
	})
	return err
}

func (c *Closer) closeInOrder(ctx context.Context, funcs []Func) (int, []string) {
	var errs []string
	for i := len(funcs) - 1; i >= 0; i-- {
		f := funcs[i]
		done := make(chan error, 1)
		go func() { done <- f(ctx) }()

		select {
		case err := <-done:
			if err != nil {
				errs = append(errs, err.Error())
			}
		case <-ctx.Done():
			return i, errs
		}
	}
	return allClosed, errs
}

func (c *Closer) forceClose(funcs []Func) []string {
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []string
	)

	ctx, cancel := context.WithTimeout(context.Background(), c.forcedTimeout)
	defer cancel()

	for _, f := range funcs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := f(ctx); err != nil {
				mu.Lock()
				errs = append(errs, "forced: "+err.Error())
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	return errs
}
