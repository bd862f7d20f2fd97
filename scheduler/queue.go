package scheduler

import (
	"fmt"

	conq "github.com/enriquebris/goconcurrentqueue"
	"github.com/go-faster/errors"
	"go.uber.org/zap"
)

type fifo interface {
	Enqueue(int) error
	Dequeue() (int, error)
	GetLen() int
}

type conqFIFO struct {
	conq.FIFO
}

func newConqFIFO() *conqFIFO {
	return &conqFIFO{
		FIFO: *conq.NewFIFO(),
	}
}

func (c *conqFIFO) Enqueue(shot int) error {
	return c.FIFO.Enqueue(shot)
}

func (c *conqFIFO) Dequeue() (int, error) {
	tmp, err := c.FIFO.Dequeue()
	if err != nil {
		return 0, err
	}
	return tmp.(int), nil
}

func (c *conqFIFO) GetLen() int {
	return c.FIFO.GetLen()
}

// ShotQueue hands shot indices to the sampling workers in FIFO order.
// A worker stops once Dequeue reports an empty queue.
type ShotQueue struct {
	fifo    fifo
	maxSize int
}

// NewShotQueue returns an empty queue. maxSize <= 0 means unbounded.
func NewShotQueue(maxSize int) *ShotQueue {
	return &ShotQueue{
		fifo:    newConqFIFO(),
		maxSize: maxSize,
	}
}

// NewFilledShotQueue returns a queue holding the shot indices 0..shots-1.
func NewFilledShotQueue(shots int) (*ShotQueue, error) {
	q := NewShotQueue(shots)
	for i := 0; i < shots; i++ {
		if err := q.Enqueue(i); err != nil {
			return nil, err
		}
	}
	return q, nil
}

func (q *ShotQueue) Enqueue(shot int) error {
	if q.maxSize > 0 && q.maxSize <= q.fifo.GetLen() {
		zap.L().Info(fmt.Sprintf("Failed to put shot %d. Shot queue is full.", shot))
		return errors.Errorf("shot queue is full (max %d)", q.maxSize)
	}
	if err := q.fifo.Enqueue(shot); err != nil {
		zap.L().Error(fmt.Sprintf("Failed to put shot %d to shot queue. Reason:%s", shot, err))
		return err
	}
	return nil
}

func (q *ShotQueue) Dequeue() (int, error) {
	shot, err := q.fifo.Dequeue()
	if err != nil {
		zap.L().Debug("no shot in ShotQueue.", zap.Error(err))
		return 0, err
	}
	return shot, nil
}

func (q *ShotQueue) Len() int {
	return q.fifo.GetLen()
}

// IsEmpty reports whether err is the error Dequeue returns on an empty queue.
func IsEmpty(err error) bool {
	var qErr *conq.QueueError
	if errors.As(err, &qErr) {
		return qErr.Code() == conq.QueueErrorCodeEmptyQueue
	}
	return false
}
