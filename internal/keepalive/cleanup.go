package keepalive

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
)

var ErrCleanupTimeout = errors.New("cleanup timeout exceeded")

// CleanupManager runs shutdown steps once, newest first, within a timeout.
type CleanupManager struct {
	mu          sync.Mutex
	resources   []CleanupResource
	timeout     time.Duration
	cleanupOnce sync.Once
	result      error
}

// CleanupResource represents a resource that needs cleanup
type CleanupResource interface {
	Cleanup() error
	Name() string
}

// CleanupFunc is a function-based cleanup resource
type CleanupFunc struct {
	name string
	fn   func() error
}

func (c *CleanupFunc) Cleanup() error {
	return c.fn()
}

func (c *CleanupFunc) Name() string {
	return c.name
}

// NewCleanupManager creates a new cleanup manager with the specified timeout
func NewCleanupManager(timeout time.Duration) *CleanupManager {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &CleanupManager{timeout: timeout}
}

// Register adds a resource to be cleaned up
func (cm *CleanupManager) Register(resource CleanupResource) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.resources = append(cm.resources, resource)
}

// RegisterFunc registers a cleanup function
func (cm *CleanupManager) RegisterFunc(name string, fn func() error) {
	cm.Register(&CleanupFunc{name: name, fn: fn})
}

// RegisterKeeper stops k's session during cleanup, bounded by the manager's timeout.
func (cm *CleanupManager) RegisterKeeper(k *Keeper) {
	cm.RegisterFunc("keeper", func() error {
		return k.StopWithTimeout(cm.timeout)
	})
}

// Execute runs every registered step in reverse registration order. Only the
// first call does any work; later calls return the same result.
func (cm *CleanupManager) Execute() error {
	cm.cleanupOnce.Do(func() {
		cm.result = cm.executeWithTimeout()
	})
	return cm.result
}

func (cm *CleanupManager) executeWithTimeout() error {
	cm.mu.Lock()
	resources := make([]CleanupResource, len(cm.resources))
	copy(resources, cm.resources)
	cm.mu.Unlock()

	if len(resources) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), cm.timeout)
	defer cancel()

	done := make(chan struct{})
	var cleanupErrors []error
	var mu sync.Mutex

	go func() {
		defer close(done)
		for i := len(resources) - 1; i >= 0; i-- {
			if ctx.Err() != nil {
				return
			}
			resource := resources[i]
			func() {
				defer func() {
					if r := recover(); r != nil {
						mu.Lock()
						cleanupErrors = append(cleanupErrors, fmt.Errorf("%s: panic during cleanup: %v", resource.Name(), r))
						mu.Unlock()
						log.Printf("cleanup: panic cleaning up %s: %v", resource.Name(), r)
					}
				}()

				if err := resource.Cleanup(); err != nil {
					mu.Lock()
					cleanupErrors = append(cleanupErrors, fmt.Errorf("%s: %w", resource.Name(), err))
					mu.Unlock()
					log.Printf("cleanup: error cleaning up %s: %v", resource.Name(), err)
				} else {
					log.Printf("cleanup: cleaned up %s", resource.Name())
				}
			}()
		}
	}()

	select {
	case <-done:
	case <-ctx.Done():
		log.Printf("cleanup: timeout after %v, some resources may not have been cleaned up", cm.timeout)
		mu.Lock()
		cleanupErrors = append(cleanupErrors, ErrCleanupTimeout)
		mu.Unlock()
	}

	mu.Lock()
	defer mu.Unlock()
	return errors.Join(cleanupErrors...)
}
