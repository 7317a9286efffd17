package pricing

import (
	"testing"

	pkgerrors "github.com/freshfind/storefront/pkg/errors"
)

func TestSelectionApplyEligibleOffer(t *testing.T) {
	sel := NewSelection()

	result, transition, err := sel.Apply(sampleOffer(), d("450"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if transition != TransitionApplied {
		t.Fatalf("expected applied transition, got %s", transition)
	}
	if !result.Discount.Equal(d("40")) {
		t.Fatalf("expected capped discount 40, got %s", result.Discount)
	}
	current, ok := sel.Current()
	if !ok || current.Code != "FRESH10" {
		t.Fatalf("expected FRESH10 applied, got %+v", current)
	}
}

func TestSelectionApplyIsIdempotent(t *testing.T) {
	sel := NewSelection()
	if _, _, err := sel.Apply(sampleOffer(), d("450")); err != nil {
		t.Fatalf("first apply: %v", err)
	}
	first := sel.Discount()

	_, transition, err := sel.Apply(sampleOffer(), d("450"))
	if err != nil {
		t.Fatalf("second apply: %v", err)
	}
	if transition != TransitionRecomputed {
		t.Fatalf("expected recomputed transition, got %s", transition)
	}
	if !sel.Discount().Equal(first) {
		t.Fatalf("re-applying changed discount from %s to %s", first, sel.Discount())
	}
}

func TestSelectionApplyReplacesPriorOffer(t *testing.T) {
	sel := NewSelection()
	if _, _, err := sel.Apply(sampleOffer(), d("450")); err != nil {
		t.Fatalf("apply: %v", err)
	}

	other := Offer{ID: "off-2", Code: "BIG20", Discount: d("20"), MaxDiscount: d("200"), MinimumOrder: d("100")}
	_, transition, err := sel.Apply(other, d("450"))
	if err != nil {
		t.Fatalf("apply other: %v", err)
	}
	if transition != TransitionReplaced {
		t.Fatalf("expected replaced transition, got %s", transition)
	}
	current, _ := sel.Current()
	if current.Code != "BIG20" {
		t.Fatalf("expected BIG20 to replace FRESH10, got %s", current.Code)
	}
	if !sel.Discount().Equal(d("90")) {
		t.Fatalf("expected 90 discount, got %s", sel.Discount())
	}
}

func TestSelectionApplyIneligibleClearsPrior(t *testing.T) {
	sel := NewSelection()
	if _, _, err := sel.Apply(sampleOffer(), d("450")); err != nil {
		t.Fatalf("apply: %v", err)
	}

	strict := Offer{ID: "off-3", Code: "HUGE", Discount: d("30"), MaxDiscount: d("500"), MinimumOrder: d("2000")}
	result, transition, err := sel.Apply(strict, d("450"))
	if err == nil {
		t.Fatal("expected error for ineligible offer")
	}
	if !pkgerrors.IsCode(err, pkgerrors.CodeOfferIneligible) {
		t.Fatalf("expected state conflict, got %v", err)
	}
	if transition != TransitionRemoved {
		t.Fatalf("expected removed transition, got %s", transition)
	}
	if !result.Shortfall.Equal(d("1550")) {
		t.Fatalf("unexpected shortfall %s", result.Shortfall)
	}
	if _, ok := sel.Current(); ok {
		t.Fatal("expected no offer applied after ineligible apply")
	}
	if !sel.Discount().IsZero() {
		t.Fatalf("expected zero discount, got %s", sel.Discount())
	}
}

func TestSelectionReevaluate(t *testing.T) {
	sel := NewSelection()

	if _, transition := sel.Reevaluate(d("999")); transition != TransitionNone {
		t.Fatalf("expected no transition without offer, got %s", transition)
	}

	if _, _, err := sel.Apply(sampleOffer(), d("1000")); err != nil {
		t.Fatalf("apply: %v", err)
	}

	result, transition := sel.Reevaluate(d("420"))
	if transition != TransitionRecomputed {
		t.Fatalf("expected recomputed, got %s", transition)
	}
	if !result.Discount.Equal(d("40")) || !result.Capped {
		t.Fatalf("expected 42 capped to 40, got %+v", result)
	}

	_, transition = sel.Reevaluate(d("350"))
	if transition != TransitionRemoved {
		t.Fatalf("expected removed when below minimum, got %s", transition)
	}
	if _, ok := sel.Current(); ok {
		t.Fatal("offer should be de-applied")
	}
}
