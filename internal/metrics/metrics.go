package metrics

import (
	"sync/atomic"
	"time"
)

type Counter struct {
	value uint64
}

func (c *Counter) Inc() {
	atomic.AddUint64(&c.value, 1)
}

func (c *Counter) Add(n uint64) {
	atomic.AddUint64(&c.value, n)
}

func (c *Counter) Load() uint64 {
	return atomic.LoadUint64(&c.value)
}

type Timer struct {
	start time.Time
}

func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// Desk counts what the order desk did since start.
type Desk struct {
	DraftsCreated    Counter
	OrdersSubmitted  Counter
	OrderFailures    Counter
	CustomersCreated Counter
	InvoicesSent     Counter

	dataAPICalls  Counter
	dataAPIErrors Counter
	dataAPINanos  Counter
}

// ObserveDataAPI records one round trip to the data API.
func (d *Desk) ObserveDataAPI(took time.Duration, err error) {
	d.dataAPICalls.Inc()
	if took > 0 {
		d.dataAPINanos.Add(uint64(took))
	}
	if err != nil {
		d.dataAPIErrors.Inc()
	}
}

type Snapshot struct {
	DraftsCreated     uint64  `json:"draftsCreated"`
	OrdersSubmitted   uint64  `json:"ordersSubmitted"`
	OrderFailures     uint64  `json:"orderFailures"`
	CustomersCreated  uint64  `json:"customersCreated"`
	InvoicesSent      uint64  `json:"invoicesSent"`
	DataAPICalls      uint64  `json:"dataApiCalls"`
	DataAPIErrors     uint64  `json:"dataApiErrors"`
	DataAPIAvgLatency float64 `json:"dataApiAvgLatencyMs"`
}

func (d *Desk) Snapshot() Snapshot {
	s := Snapshot{
		DraftsCreated:    d.DraftsCreated.Load(),
		OrdersSubmitted:  d.OrdersSubmitted.Load(),
		OrderFailures:    d.OrderFailures.Load(),
		CustomersCreated: d.CustomersCreated.Load(),
		InvoicesSent:     d.InvoicesSent.Load(),
		DataAPICalls:     d.dataAPICalls.Load(),
		DataAPIErrors:    d.dataAPIErrors.Load(),
	}
	if s.DataAPICalls > 0 {
		avg := time.Duration(d.dataAPINanos.Load() / s.DataAPICalls)
		s.DataAPIAvgLatency = float64(avg) / float64(time.Millisecond)
	}
	return s
}

var std = &Desk{}

// Default is the process-wide Desk.
func Default() *Desk {
	return std
}
