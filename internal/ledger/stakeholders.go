package ledger

import "github.com/babylonlabs-io/staking-ledger/pkg"

// stakeholderIndex is an ordered set of addresses with O(1) insert, remove and
// position lookup. Removal moves the last member into the freed slot.
type stakeholderIndex struct {
	members   []pkg.Address
	positions map[pkg.Address]int
}

func newStakeholderIndex() *stakeholderIndex {
	return &stakeholderIndex{
		positions: make(map[pkg.Address]int),
	}
}

func (s *stakeholderIndex) position(addr pkg.Address) (int, bool) {
	pos, ok := s.positions[addr]
	return pos, ok
}

// insert is a no-op for existing members.
func (s *stakeholderIndex) insert(addr pkg.Address) {
	if _, ok := s.positions[addr]; ok {
		return
	}

	s.positions[addr] = len(s.members)
	s.members = append(s.members, addr)
}

// remove is a no-op for non-members.
func (s *stakeholderIndex) remove(addr pkg.Address) {
	pos, ok := s.positions[addr]
	if !ok {
		return
	}

	last := len(s.members) - 1
	if pos != last {
		moved := s.members[last]
		s.members[pos] = moved
		s.positions[moved] = pos
	}
	s.members = s.members[:last]
	delete(s.positions, addr)
}

func (s *stakeholderIndex) len() int {
	return len(s.members)
}

func (s *stakeholderIndex) list() []pkg.Address {
	out := make([]pkg.Address, len(s.members))
	copy(out, s.members)
	return out
}
