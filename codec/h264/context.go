/*
DESCRIPTION
  context.go stores active sequence and picture parameter sets by id, and
  implements the idempotent re-submission rule the original compositor's
  parameter-set cache uses: re-registering a byte-identical SPS/PPS under
  the same id is a silent no-op, while re-registering one whose contents
  differ under an already-active id is an error.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)
*/

package h264

import (
	"reflect"

	"github.com/pkg/errors"
)

// Context holds the parameter sets a stream's parser has seen so far.
type Context struct {
	sps map[uint64]*SPS
	pps map[uint64]*PPS
}

// NewContext returns an empty parameter set Context.
func NewContext() *Context {
	return &Context{sps: make(map[uint64]*SPS), pps: make(map[uint64]*PPS)}
}

// AddSPS registers sps under its ID. Re-registering an identical SPS under
// an id already present is a no-op; re-registering a different one under
// the same id is an error.
func (c *Context) AddSPS(sps *SPS) error {
	if existing, ok := c.sps[sps.ID]; ok {
		if reflect.DeepEqual(existing, sps) {
			return nil
		}
		return errors.Errorf("sps id %d changed without a new sequence", sps.ID)
	}
	c.sps[sps.ID] = sps
	return nil
}

// AddPPS registers pps under its ID, applying the same idempotency rule as
// AddSPS. The PPS's SPSID must already be registered.
func (c *Context) AddPPS(pps *PPS) error {
	if _, ok := c.sps[pps.SPSID]; !ok {
		return newParseError(KindPps, "pps references unknown sps", errors.Errorf("sps id %d", pps.SPSID))
	}
	if existing, ok := c.pps[pps.ID]; ok {
		if reflect.DeepEqual(existing, pps) {
			return nil
		}
		return errors.Errorf("pps id %d changed without a new sequence", pps.ID)
	}
	c.pps[pps.ID] = pps
	return nil
}

// SPS returns the SPS registered under id, if any.
func (c *Context) SPS(id uint64) (*SPS, bool) {
	s, ok := c.sps[id]
	return s, ok
}

// PPS returns the PPS registered under id, if any.
func (c *Context) PPS(id uint64) (*PPS, bool) {
	p, ok := c.pps[id]
	return p, ok
}
