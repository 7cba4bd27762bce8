package checklists_test

import (
	"testing"

	"github.com/google/uuid"

	"github.com/attest-hq/attest/internal/checklists"
	"github.com/attest-hq/attest/internal/evidence"
)

func artifact(filename string, tags ...string) evidence.EvidenceArtifact {
	return evidence.EvidenceArtifact{
		ID:       uuid.New(),
		Filename: filename,
		Tags:     tags,
	}
}

func TestMatchConfidence(t *testing.T) {
	t.Run("exact filename similarity", func(t *testing.T) {
		a := artifact("payroll_policy.pdf")
		got := checklists.MatchConfidence("Payroll Policy", a)
		if got != 0.7 {
			t.Errorf("confidence = %f, want 0.7 (similarity weight only)", got)
		}
	})

	t.Run("exact tag hit tops up", func(t *testing.T) {
		a := artifact("scan-20260712.pdf", "payroll policy")
		got := checklists.MatchConfidence("Payroll Policy", a)
		if got != 1 {
			t.Errorf("confidence = %f, want 1 (similarity + tag hit)", got)
		}
	})

	t.Run("unrelated artifact scores low", func(t *testing.T) {
		a := artifact("cafeteria_menu.docx")
		got := checklists.MatchConfidence("STP submission receipt", a)
		if got > 0.4 {
			t.Errorf("confidence = %f, want low score", got)
		}
	})

	t.Run("empty descriptor scores zero", func(t *testing.T) {
		a := artifact("payroll_policy.pdf")
		if got := checklists.MatchConfidence("  ", a); got != 0 {
			t.Errorf("confidence = %f, want 0", got)
		}
	})

	t.Run("separator and case insensitive", func(t *testing.T) {
		a := artifact("ACCESS-CONTROL-POLICY.PDF")
		got := checklists.MatchConfidence("access control policy", a)
		if got != 0.7 {
			t.Errorf("confidence = %f, want 0.7", got)
		}
	})
}

func TestMatchArtifacts(t *testing.T) {
	t.Run("assigns best artifact per descriptor", func(t *testing.T) {
		policy := artifact("payroll_policy.pdf", "payroll policy")
		receipt := artifact("stp_receipt.pdf", "stp receipt")
		pool := []evidence.EvidenceArtifact{receipt, policy}

		matches := checklists.MatchArtifacts(
			[]string{"payroll policy", "stp receipt"},
			pool,
			0.65,
		)

		if len(matches) != 2 {
			t.Fatalf("matches = %d, want 2", len(matches))
		}
		if matches[0].ArtifactID != policy.ID {
			t.Errorf("first match = %s, want policy artifact", matches[0].ArtifactID)
		}
		if matches[1].ArtifactID != receipt.ID {
			t.Errorf("second match = %s, want receipt artifact", matches[1].ArtifactID)
		}
	})

	t.Run("artifact never assigned twice", func(t *testing.T) {
		policy := artifact("payroll_policy.pdf", "payroll policy")
		pool := []evidence.EvidenceArtifact{policy}

		matches := checklists.MatchArtifacts(
			[]string{"payroll policy", "payroll policy copy"},
			pool,
			0.5,
		)

		if len(matches) != 1 {
			t.Fatalf("matches = %d, want 1 (single artifact in pool)", len(matches))
		}
		if matches[0].Descriptor != "payroll policy" {
			t.Errorf("descriptor = %s, first descriptor should take the artifact", matches[0].Descriptor)
		}
	})

	t.Run("threshold filters weak matches", func(t *testing.T) {
		pool := []evidence.EvidenceArtifact{artifact("cafeteria_menu.docx")}

		matches := checklists.MatchArtifacts([]string{"stp submission receipt"}, pool, 0.65)
		if len(matches) != 0 {
			t.Errorf("matches = %v, want none below threshold", matches)
		}
	})

	t.Run("deterministic across repeat runs", func(t *testing.T) {
		pool := []evidence.EvidenceArtifact{
			artifact("payroll_policy_v1.pdf"),
			artifact("payroll_policy_v2.pdf"),
		}
		descriptors := []string{"payroll policy v1", "payroll policy v2"}

		first := checklists.MatchArtifacts(descriptors, pool, 0.5)
		second := checklists.MatchArtifacts(descriptors, pool, 0.5)

		if len(first) != len(second) {
			t.Fatalf("run lengths differ: %d vs %d", len(first), len(second))
		}
		for i := range first {
			if first[i] != second[i] {
				t.Errorf("match %d differs between runs: %+v vs %+v", i, first[i], second[i])
			}
		}
	})
}
