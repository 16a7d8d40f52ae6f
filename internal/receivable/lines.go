package receivable

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/aashishkarki002/tenant-management-sub004/internal/domain"
)

type Totals struct {
	Principal domain.Paisa
	Withheld  domain.Paisa
	Paid      domain.Paisa
	Remaining domain.Paisa
}

// Aggregate sums sub-lines with integer addition only.
func Aggregate(lines []domain.ReceivableLine) Totals {
	var t Totals
	for _, l := range lines {
		t.Principal += l.Principal
		t.Withheld += l.Withheld
		t.Paid += l.Paid
		t.Remaining += l.Remaining()
	}
	return t
}

// CheckLines enforces that a receivable split into sub-lines has the same
// principal, withheld, paid and remaining totals as its lines.
func CheckLines(r *domain.Receivable) error {
	if len(r.Lines) == 0 {
		return nil
	}
	t := Aggregate(r.Lines)
	if t.Principal != r.Principal || t.Withheld != r.Withheld || t.Paid != r.Paid || t.Remaining != r.Remaining() {
		return fmt.Errorf("CheckLines: lines principal %d withheld %d paid %d remaining %d, receivable principal %d withheld %d paid %d remaining %d: %w",
			t.Principal, t.Withheld, t.Paid, t.Remaining,
			r.Principal, r.Withheld, r.Paid, r.Remaining(), ErrLineTotalsMismatch)
	}
	return nil
}

// SplitWithheld spreads withheld over the lines in proportion to their
// principal using the largest remainder method. Ties go to the earlier line.
// The shares sum to withheld and no line's share exceeds its principal.
func SplitWithheld(lines []domain.ReceivableLine, withheld domain.Paisa) []domain.ReceivableLine {
	if len(lines) == 0 {
		return nil
	}
	out := make([]domain.ReceivableLine, len(lines))
	copy(out, lines)

	var total domain.Paisa
	for _, l := range out {
		total += l.Principal
	}
	if withheld <= 0 || total <= 0 {
		for i := range out {
			out[i].Withheld = 0
		}
		return out
	}

	w := decimal.NewFromInt(int64(withheld))
	d := decimal.NewFromInt(int64(total))
	rems := make([]decimal.Decimal, len(out))
	left := withheld
	for i := range out {
		q, r := w.Mul(decimal.NewFromInt(int64(out[i].Principal))).QuoRem(d, 0)
		out[i].Withheld = domain.Paisa(q.IntPart())
		rems[i] = r
		left -= out[i].Withheld
	}

	order := make([]int, len(out))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return rems[order[a]].GreaterThan(rems[order[b]])
	})
	for _, i := range order {
		if left <= 0 {
			break
		}
		out[i].Withheld++
		left--
	}
	return out
}

// Allocate spreads amount over the lines in order, filling each up to what
// it is due. Anything left over lands on the last line.
func Allocate(lines []domain.ReceivableLine, amount domain.Paisa) []domain.ReceivableLine {
	if len(lines) == 0 {
		return nil
	}
	out := make([]domain.ReceivableLine, len(lines))
	copy(out, lines)

	left := amount
	for i := range out {
		if left == 0 {
			break
		}
		room := out[i].Due() - out[i].Paid
		if room <= 0 {
			continue
		}
		take := min(room, left)
		out[i].Paid += take
		left -= take
	}
	if left > 0 {
		out[len(out)-1].Paid += left
	}
	return out
}

// Deallocate removes amount from the lines starting with the last one, the
// mirror image of Allocate.
func Deallocate(lines []domain.ReceivableLine, amount domain.Paisa) []domain.ReceivableLine {
	if len(lines) == 0 {
		return nil
	}
	out := make([]domain.ReceivableLine, len(lines))
	copy(out, lines)

	left := amount
	for i := len(out) - 1; i >= 0 && left > 0; i-- {
		take := min(out[i].Paid, left)
		out[i].Paid -= take
		left -= take
	}
	return out
}
