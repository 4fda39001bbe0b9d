// Package inspect reads a stream of wire documents, one per line, and runs
// every document through the same path a node would: decode, classify, decide
// and, for packets the node handles, extract the concrete packet.
package inspect

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strconv"
	"sync"

	"github.com/mosaicnetworks/meshwire/src/common"
	"github.com/mosaicnetworks/meshwire/src/protocol"
	"github.com/mosaicnetworks/meshwire/src/router"
	"github.com/mosaicnetworks/meshwire/src/telemetry"
	"github.com/mosaicnetworks/meshwire/src/variant"
	"github.com/sirupsen/logrus"
)

// Summary counts what an Inspector has seen.
type Summary struct {
	Lines     int            `json:"lines"`
	Packets   int            `json:"packets"`
	Malformed int            `json:"malformed"`
	Handled   int            `json:"handled"`
	Forwarded int            `json:"forwarded"`
	Dropped   int            `json:"dropped"`
	ByType    map[string]int `json:"by_type"`
	ByRouting map[string]int `json:"by_routing"`
}

func newSummary() Summary {
	return Summary{
		ByType:    make(map[string]int),
		ByRouting: make(map[string]int),
	}
}

func (s Summary) copy() Summary {
	out := s
	out.ByType = make(map[string]int, len(s.ByType))
	for k, v := range s.ByType {
		out.ByType[k] = v
	}
	out.ByRouting = make(map[string]int, len(s.ByRouting))
	for k, v := range s.ByRouting {
		out.ByRouting[k] = v
	}
	return out
}

func (s *Summary) add(o Summary) {
	s.Lines += o.Lines
	s.Packets += o.Packets
	s.Malformed += o.Malformed
	s.Handled += o.Handled
	s.Forwarded += o.Forwarded
	s.Dropped += o.Dropped
	for k, v := range o.ByType {
		s.ByType[k] += v
	}
	for k, v := range o.ByRouting {
		s.ByRouting[k] += v
	}
}

// Inspector decodes documents on behalf of node self. It is safe to call
// Stats while Process is running.
type Inspector struct {
	sync.Mutex

	self    protocol.NodeID
	limit   int
	metrics *telemetry.Metrics
	logger  *logrus.Entry

	total Summary
}

// NewInspector returns an Inspector for node self. Documents longer than
// limit bytes are counted as malformed. metrics may be nil.
func NewInspector(self protocol.NodeID,
	limit int,
	metrics *telemetry.Metrics,
	logger *logrus.Entry) *Inspector {

	return &Inspector{
		self:    self,
		limit:   limit,
		metrics: metrics,
		logger:  logger,
		total:   newSummary(),
	}
}

// Process reads r until EOF. Blank lines are skipped. Lines that do not
// decode, and handled packets whose body does not decode, are counted as
// malformed and skipped. The returned Summary covers this call only;
// Stats accumulates across calls. Only read errors are returned.
func (i *Inspector) Process(r io.Reader) (Summary, error) {
	sum := newSummary()
	br := bufio.NewReader(r)

	for {
		line, tooLong, err := i.readLine(br)
		if err != nil && err != io.EOF {
			i.merge(sum)
			return sum, err
		}

		line = bytes.TrimSpace(line)
		if tooLong {
			sum.Lines++
			i.malformed(&sum, common.NewWireErr("Variant", common.TooLarge, strconv.Itoa(i.limit)))
		} else if len(line) > 0 {
			sum.Lines++
			i.inspect(&sum, line)
		}

		if err == io.EOF {
			break
		}
	}

	i.merge(sum)
	return sum, nil
}

// Stats returns the counts accumulated over every call to Process.
func (i *Inspector) Stats() Summary {
	i.Lock()
	defer i.Unlock()
	return i.total.copy()
}

func (i *Inspector) merge(s Summary) {
	i.Lock()
	defer i.Unlock()
	i.total.add(s)
}

// readLine returns the next line without its terminator. A line longer than
// the limit is consumed but not kept.
func (i *Inspector) readLine(br *bufio.Reader) ([]byte, bool, error) {
	var line []byte
	tooLong := false

	for {
		frag, err := br.ReadSlice('\n')
		if !tooLong {
			if len(line)+len(frag) > i.limit+2 {
				tooLong = true
				line = nil
			} else {
				line = append(line, frag...)
			}
		}
		if err == bufio.ErrBufferFull {
			continue
		}
		if err == io.EOF && len(frag) == 0 && len(line) == 0 && !tooLong {
			return nil, false, io.EOF
		}
		return line, tooLong, err
	}
}

func (i *Inspector) inspect(sum *Summary, line []byte) {
	v, err := variant.DecodeLimit(line, i.limit)
	if err != nil {
		i.malformed(sum, err)
		return
	}

	routing := v.Routing()
	action := router.Decide(routing, i.self, v.Dest())

	sum.Packets++
	sum.ByType[v.Type().String()]++
	sum.ByRouting[routing.String()]++

	switch action.Forward {
	case router.Drop:
		sum.Dropped++
	case router.TowardDest, router.AllButOrigin:
		sum.Forwarded++
	}

	if action.Handle {
		if _, err := v.Package(); err != nil {
			i.malformed(sum, err)
		} else {
			sum.Handled++
		}
	}

	if i.metrics != nil {
		i.metrics.Packets.WithLabelValues(v.Type().String(), routing.String()).Inc()
		i.metrics.Actions.WithLabelValues(action.Forward.String(), strconv.FormatBool(action.Handle)).Inc()
		i.metrics.Bytes.Observe(float64(v.Len()))
	}

	i.logger.WithFields(logrus.Fields{
		"type":    v.Type(),
		"dest":    v.Dest(),
		"routing": routing,
		"handle":  action.Handle,
		"forward": action.Forward,
	}).Debug("Inspect")
}

func (i *Inspector) malformed(sum *Summary, err error) {
	sum.Malformed++

	kind := "Unknown"
	var werr common.WireErr
	if errors.As(err, &werr) {
		kind = werr.Kind().String()
	}

	if i.metrics != nil {
		i.metrics.Errors.WithLabelValues(kind).Inc()
	}

	i.logger.WithError(err).Warn("Malformed document")
}
