package smoke

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
)

// seedAuthors creates the configured number of authors concurrently
// using a worker pool.
func seedAuthors(ctx context.Context, client *HTTPClient, config *Config, stats *Stats) error {
	if config.Authors <= 0 {
		return nil
	}
	log.Printf("📤 Seeding %d authors with %d workers...", config.Authors, config.Workers)

	var (
		created int64
		failed  int64
	)

	nameChan := make(chan string, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for name := range nameChan {
				select {
				case <-ctx.Done():
					return
				default:
					status, _, err := client.Post(ctx, config.BaseURL+"/authors", map[string]any{"name": name})
					if err != nil || status != StatusCreated {
						atomic.AddInt64(&failed, 1)
						continue
					}
					atomic.AddInt64(&created, 1)
				}
			}
		}()
	}

	go func() {
		defer close(nameChan)
		for i := 0; i < config.Authors; i++ {
			select {
			case <-ctx.Done():
				return
			case nameChan <- fmt.Sprintf("Seed Author %04d", i):
			}
		}
	}()

	wg.Wait()

	stats.AuthorsCreated = int(atomic.LoadInt64(&created))
	stats.CreateFailed = int(atomic.LoadInt64(&failed))
	log.Printf("✅ Seeding completed: %d created, %d failed", stats.AuthorsCreated, stats.CreateFailed)

	if stats.AuthorsCreated == 0 {
		return fmt.Errorf("no authors could be created")
	}
	return nil
}
