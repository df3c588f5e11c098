package sheets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"google.golang.org/api/option"
	sheetsv4 "google.golang.org/api/sheets/v4"

	"scoreview/internal/config"
)

// Source 成绩数据来源
// 处理层只依赖该接口，测试时可替换为假实现
type Source interface {
	// ListWorksheets 按表内顺序返回全部工作表标题
	ListWorksheets(ctx context.Context) ([]string, error)
	// Values 返回指定工作表的全部单元格取值（含表头行）
	Values(ctx context.Context, worksheet string) ([][]string, error)
}

// Client Google Sheets 客户端，绑定单个表格
type Client struct {
	srv           *sheetsv4.Service
	spreadsheetID string
}

var spreadsheetURLRe = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9-_]+)`)

// SpreadsheetID 从完整 URL 或裸 ID 中解析表格 ID
func SpreadsheetID(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", errors.New("spreadsheet 未配置")
	}
	if m := spreadsheetURLRe.FindStringSubmatch(s); len(m) == 2 {
		return m[1], nil
	}
	if strings.Contains(s, "/") {
		return "", fmt.Errorf("无法从 %q 解析表格 ID", s)
	}
	return s, nil
}

// credentialBytes 取服务账号凭证内容
// 内联 JSON 优先于文件路径；两者都未配置时报错
func credentialBytes(cfg *config.SheetsConfig) ([]byte, error) {
	if cfg.CredentialsJSON != "" {
		return []byte(cfg.CredentialsJSON), nil
	}
	if cfg.CredentialsFile != "" {
		data, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("读取凭证文件: %w", err)
		}
		return data, nil
	}
	return nil, errors.New("未配置服务账号凭证 (credentials_json / credentials_file)")
}

// NewClient 构建已认证的客户端
// 凭证解析或认证失败直接返回错误，调用方应在启动阶段终止
func NewClient(ctx context.Context, cfg *config.SheetsConfig) (*Client, error) {
	id, err := SpreadsheetID(cfg.Spreadsheet)
	if err != nil {
		return nil, err
	}

	creds, err := credentialBytes(cfg)
	if err != nil {
		return nil, err
	}

	srv, err := sheetsv4.NewService(ctx,
		option.WithCredentialsJSON(creds),
		option.WithScopes(sheetsv4.SpreadsheetsScope, sheetsv4.DriveScope),
	)
	if err != nil {
		return nil, fmt.Errorf("构建 Sheets 服务: %w", err)
	}

	return &Client{srv: srv, spreadsheetID: id}, nil
}

// SpreadsheetID 当前绑定的表格 ID
func (c *Client) SpreadsheetID() string {
	return c.spreadsheetID
}

// ListWorksheets 返回全部工作表标题，保持表内顺序
func (c *Client) ListWorksheets(ctx context.Context) ([]string, error) {
	resp, err := c.srv.Spreadsheets.Get(c.spreadsheetID).
		Fields("sheets(properties(title))").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("获取工作表列表: %w", err)
	}

	titles := make([]string, 0, len(resp.Sheets))
	for _, sh := range resp.Sheets {
		if sh.Properties != nil {
			titles = append(titles, sh.Properties.Title)
		}
	}
	return titles, nil
}

// Values 取指定工作表的全部单元格
func (c *Client) Values(ctx context.Context, worksheet string) ([][]string, error) {
	resp, err := c.srv.Spreadsheets.Values.Get(c.spreadsheetID, quoteRange(worksheet)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("读取工作表 %q: %w", worksheet, err)
	}

	rows := make([][]string, len(resp.Values))
	for i, raw := range resp.Values {
		row := make([]string, len(raw))
		for j, cell := range raw {
			row[j] = cellString(cell)
		}
		rows[i] = row
	}
	return rows, nil
}

// quoteRange 把工作表标题包成 A1 范围引用，内部单引号按规则翻倍
func quoteRange(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

func cellString(cell any) string {
	switch v := cell.(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
