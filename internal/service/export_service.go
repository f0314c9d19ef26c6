package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"skillswap/internal/model"
	"skillswap/internal/repository"
	pkgerrors "skillswap/pkg/errors"
)

// ── 导出模块业务错误 ──

var (
	ErrExportGenerateFail = pkgerrors.New(pkgerrors.KindInternal, 15001, "生成 Excel 文件失败")
)

// ExportService 导出业务接口
//
// 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportSwaps 导出调用方参与的全部交换请求
	ExportSwaps(ctx context.Context, callerID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

var swapStatusNames = map[model.SwapStatus]string{
	model.SwapStatusPending:   "待处理",
	model.SwapStatusAccepted:  "已接受",
	model.SwapStatusRejected:  "已拒绝",
	model.SwapStatusCancelled: "已取消",
	model.SwapStatusCompleted: "已完成",
}

var exportHeaders = []string{"方向", "对方", "我想学", "我能教", "状态", "提议时间", "我的评分", "对方评分", "创建时间", "完成时间"}

// ═══════════════════════════════════════════════════════════
// ExportSwaps 导出交换记录为 Excel
// ═══════════════════════════════════════════════════════════
//
// 每行一条请求，按创建时间倒序；技能列统一以调用方视角呈现

func (s *exportService) ExportSwaps(ctx context.Context, callerID string) (*bytes.Buffer, string, error) {
	swaps, err := s.repo.SwapRequest.ListByParticipant(ctx, callerID, repository.SwapFilter{})
	if err != nil {
		s.logger.Error("查询交换请求失败", zap.String("user_id", callerID), zap.Error(err))
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "交换记录"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "B", 14)
	f.SetColWidth(sheetName, "C", "D", 18)
	f.SetColWidth(sheetName, "E", "H", 10)
	f.SetColWidth(sheetName, "F", "F", 24)
	f.SetColWidth(sheetName, "I", "J", 20)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	for i, h := range exportHeaders {
		f.SetCellValue(sheetName, cell(colName(i), 1), h)
	}
	f.SetCellStyle(sheetName, "A1", cell(colName(len(exportHeaders)-1), 1), headerStyle)

	for i := range swaps {
		swap := &swaps[i]
		row := i + 2
		for col, v := range exportRow(swap, callerID) {
			f.SetCellValue(sheetName, cell(colName(col), row), v)
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", pkgerrors.Wrap(ErrExportGenerateFail, err)
	}

	filename := fmt.Sprintf("skillswap_%s.xlsx", time.Now().UTC().Format("20060102"))
	return buf, filename, nil
}

// exportRow 以调用方视角展开单条请求
func exportRow(swap *model.SwapRequest, callerID string) []string {
	p := swap.ParticipantOf(callerID)

	direction, counterpart := "发出", swap.ToUser
	wantSkill, teachSkill := swap.RequestedSkill, swap.OfferedSkill
	if p == model.Recipient {
		direction, counterpart = "收到", swap.FromUser
		wantSkill, teachSkill = swap.OfferedSkill, swap.RequestedSkill
	}
	other := model.Requester
	if p == model.Requester {
		other = model.Recipient
	}

	counterpartName := "-"
	if counterpart != nil {
		counterpartName = counterpart.Name
	}
	status, ok := swapStatusNames[swap.Status]
	if !ok {
		status = string(swap.Status)
	}
	completedAt := "-"
	if swap.CompletedAt != nil {
		completedAt = swap.CompletedAt.Format("2006-01-02 15:04")
	}

	return []string{
		direction,
		counterpartName,
		wantSkill,
		teachSkill,
		status,
		swap.ProposedTime,
		ratingText(swap.Slot(p).Rating),
		ratingText(swap.Slot(other).Rating),
		swap.CreatedAt.Format("2006-01-02 15:04"),
		completedAt,
	}
}

func ratingText(r *int) string {
	if r == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *r)
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
