// Package peers derives the comparison group for a selected bank.
package peers

import (
	"fmt"
	"sort"

	"github.com/bankstacx/bankstacx/internal/dataset"
)

// BankNotFoundError signals that the requested bank is absent from the
// loaded dataset.
type BankNotFoundError struct {
	Bank string
}

func (e *BankNotFoundError) Error() string {
	return fmt.Sprintf("bank %q not found in dataset", e.Bank)
}

// InvalidPeerCountError signals a peer count outside 1..total-1.
type InvalidPeerCountError struct {
	Count int
	Total int
}

func (e *InvalidPeerCountError) Error() string {
	return fmt.Sprintf("invalid peer count %d: must be at least 1 and less than the number of banks (%d)", e.Count, e.Total)
}

// PeerSet is the transient ordered subset of the dataset to compare the
// target bank against: the target plus up to N neighbors on each side.
// Recomputed on every selection change, never persisted.
type PeerSet struct {
	target  string
	banks   []string
	records []dataset.FinancialRecord
}

// Target returns the selected bank.
func (ps *PeerSet) Target() string {
	return ps.target
}

// Banks returns the member bank names in lexicographic order, target
// included.
func (ps *PeerSet) Banks() []string {
	return append([]string(nil), ps.banks...)
}

// Records returns the member records in the same order as Banks.
func (ps *PeerSet) Records() []dataset.FinancialRecord {
	return append([]dataset.FinancialRecord(nil), ps.records...)
}

// Len returns the number of member banks.
func (ps *PeerSet) Len() int {
	return len(ps.banks)
}

// Contains reports whether the named bank is part of the peer set.
func (ps *PeerSet) Contains(bank string) bool {
	i := sort.SearchStrings(ps.banks, bank)
	return i < len(ps.banks) && ps.banks[i] == bank
}

// Criteria selects a peer set for a target bank. The interface exists so a
// size- or sector-based grouping can replace the default neighbor policy
// without touching callers.
type Criteria interface {
	SelectPeers(d *dataset.Dataset, target string, n int) (*PeerSet, error)
}

// NeighborCriteria picks peers by adjacency in the lexicographically sorted
// bank list: up to n names before the target and up to n after, clipped at
// the list boundaries with no wraparound and no padding. A target at either
// extreme simply gets a smaller set.
type NeighborCriteria struct{}

// SelectPeers implements Criteria.
func (NeighborCriteria) SelectPeers(d *dataset.Dataset, target string, n int) (*PeerSet, error) {
	banks := d.SortedBanks()

	if _, ok := d.Lookup(target); !ok {
		return nil, &BankNotFoundError{Bank: target}
	}

	if n < 1 || n >= len(banks) {
		return nil, &InvalidPeerCountError{Count: n, Total: len(banks)}
	}

	i := sort.SearchStrings(banks, target)
	lo := i - n
	if lo < 0 {
		lo = 0
	}
	hi := i + n + 1
	if hi > len(banks) {
		hi = len(banks)
	}

	members := banks[lo:hi]
	ps := &PeerSet{
		target:  target,
		banks:   append([]string(nil), members...),
		records: make([]dataset.FinancialRecord, 0, len(members)),
	}
	for _, bank := range members {
		rec, ok := d.Lookup(bank)
		if !ok {
			return nil, &BankNotFoundError{Bank: bank}
		}
		ps.records = append(ps.records, rec)
	}

	return ps, nil
}

// SelectPeers applies the default NeighborCriteria policy.
func SelectPeers(d *dataset.Dataset, target string, n int) (*PeerSet, error) {
	return NeighborCriteria{}.SelectPeers(d, target, n)
}
