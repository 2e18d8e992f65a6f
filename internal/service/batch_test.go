package service

import (
	"testing"

	"LeafPanel/internal/model"
)

func TestSanitizeCodes(t *testing.T) {
	got := SanitizeCodes([]string{" CODE-1 ", "", "  ", "CODE-2", "\tCODE-3\n"})
	want := []string{"CODE-1", "CODE-2", "CODE-3"}

	if len(got) != len(want) {
		t.Fatalf("got %d codes, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("code[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestAssembleProgress(t *testing.T) {
	task := &model.BatchRedeemTask{
		Status:       model.BatchTaskStatusRunning,
		Codes:        model.CodeList{"A", "B", "C", "D"},
		TotalCount:   4,
		CurrentIndex: 2,
	}
	records := []model.RedeemRecord{
		{Code: "A", Success: true, Amount: "5.00", Message: "兑换成功"},
		{Code: "B", Success: false, Message: "无效的兑换码"},
	}

	progress := assembleProgress(task, records)
	if len(progress) != 4 {
		t.Fatalf("got %d entries, want 4", len(progress))
	}

	if progress[0].Status != "success" || progress[0].Amount != "5.00" {
		t.Errorf("code A: %+v", progress[0])
	}
	if progress[1].Status != "failed" {
		t.Errorf("code B: %+v", progress[1])
	}
	if progress[2].Status != "processing" {
		t.Errorf("code C: %+v", progress[2])
	}
	if progress[3].Status != "waiting" {
		t.Errorf("code D: %+v", progress[3])
	}
}

func TestAssembleProgressDuplicateCodes(t *testing.T) {
	task := &model.BatchRedeemTask{
		Status:       model.BatchTaskStatusRunning,
		Codes:        model.CodeList{"X", "X"},
		TotalCount:   2,
		CurrentIndex: 2,
	}
	// 同一个码兑换两次，第一次成功第二次失败，按先后对齐
	records := []model.RedeemRecord{
		{Code: "X", Success: true, Amount: "1.00"},
		{Code: "X", Success: false, Message: "兑换码已被使用"},
	}

	progress := assembleProgress(task, records)
	if progress[0].Status != "success" {
		t.Errorf("first X: %+v", progress[0])
	}
	if progress[1].Status != "failed" {
		t.Errorf("second X: %+v", progress[1])
	}
}

func TestAssembleProgressPausedTask(t *testing.T) {
	task := &model.BatchRedeemTask{
		Status:       model.BatchTaskStatusPaused,
		Codes:        model.CodeList{"A", "B"},
		TotalCount:   2,
		CurrentIndex: 1,
	}
	records := []model.RedeemRecord{{Code: "A", Success: true}}

	progress := assembleProgress(task, records)
	// 暂停时没有 processing 状态，当前码算 waiting
	if progress[1].Status != "waiting" {
		t.Errorf("paused current code: %+v", progress[1])
	}
}
