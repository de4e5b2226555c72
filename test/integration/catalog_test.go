package integration

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 图书模块集成测试
//
// 测试场景覆盖：
// 1. 新书入库（需要认证）
// 2. 按ISBN查询详情（公开接口,走缓存路径）
// 3. 图书列表的分页与搜索
// 4. 删除保护（存在借阅记录的图书不可删除）

// TestBookCatalog 测试图书编目功能
func TestBookCatalog(t *testing.T) {
	RequireServer(t)

	_, token := RegisterTestStaff(t)

	t.Run("正常入库", func(t *testing.T) {
		isbn := GenerateTestISBN()
		bookReq := map[string]interface{}{
			"isbn":      isbn,
			"title":     "《Go语言高级编程》",
			"category":  "计算机",
			"author":    "柴树杉",
			"publisher": "人民邮电出版社",
			"price":     890, // 8.90元
		}

		resp := PostJSON(t, BaseURL+"/books", bookReq, token)
		require.Equal(t, 0, resp.Code, "入库应该成功: %s", resp.Message)

		var data BookData
		err := json.Unmarshal(resp.Data, &data)
		require.NoError(t, err, "解析响应数据失败")

		assert.NotZero(t, data.ID, "图书ID应该大于0")
		assert.Equal(t, isbn, data.ISBN)
		assert.Equal(t, int64(890), data.Price)
		assert.Equal(t, "在架", data.Status, "新入库图书应该在架")

		t.Logf("✓ 入库成功，图书ID: %d, ISBN: %s", data.ID, data.ISBN)
	})

	t.Run("未登录不能入库", func(t *testing.T) {
		bookReq := map[string]interface{}{
			"isbn":   GenerateTestISBN(),
			"title":  "《测试图书》",
			"author": "测试作者",
			"price":  500,
		}

		resp := PostJSON(t, BaseURL+"/books", bookReq, "") // 空token
		assert.NotEqual(t, 0, resp.Code, "未登录应该失败")

		t.Logf("✓ 未登录正确被拒绝: %s", resp.Message)
	})

	t.Run("ISBN重复应失败", func(t *testing.T) {
		isbn := AddTestBook(t, token, "《图书A》")

		bookReq := map[string]interface{}{
			"isbn":   isbn, // 相同ISBN
			"title":  "《图书B》",
			"author": "作者B",
			"price":  690,
		}

		resp := PostJSON(t, BaseURL+"/books", bookReq, token)
		assert.NotEqual(t, 0, resp.Code, "重复ISBN应该失败")

		t.Logf("✓ 重复ISBN正确返回错误: %s", resp.Message)
	})

	t.Run("按ISBN查询详情", func(t *testing.T) {
		isbn := AddTestBook(t, token, "《详情查询测试》")

		// 连续查询两次,第二次命中缓存,结果应该一致
		for i := 1; i <= 2; i++ {
			resp := GetJSON(t, BaseURL+"/books/"+isbn, "")
			require.Equal(t, 0, resp.Code, "第%d次查询应该成功: %s", i, resp.Message)

			var data BookData
			err := json.Unmarshal(resp.Data, &data)
			require.NoError(t, err, "解析响应数据失败")

			assert.Equal(t, isbn, data.ISBN)
			assert.Equal(t, "《详情查询测试》", data.Title)
		}

		t.Logf("✓ 详情查询成功(含缓存路径)")
	})

	t.Run("图书不存在返回错误", func(t *testing.T) {
		resp := GetJSON(t, BaseURL+"/books/9780000000001", "")
		assert.NotEqual(t, 0, resp.Code, "图书不存在应该返回错误")

		t.Logf("✓ 图书不存在正确返回错误: %s", resp.Message)
	})

	t.Run("列表分页查询", func(t *testing.T) {
		url := fmt.Sprintf("%s/books?page=1&page_size=5", BaseURL)
		resp := GetJSON(t, url, "")
		require.Equal(t, 0, resp.Code, "列表查询应该成功: %s", resp.Message)

		var data struct {
			List     []json.RawMessage `json:"list"`
			Total    int64             `json:"total"`
			Page     int               `json:"page"`
			PageSize int               `json:"page_size"`
		}
		err := json.Unmarshal(resp.Data, &data)
		require.NoError(t, err, "解析响应数据失败")

		assert.LessOrEqual(t, len(data.List), 5, "每页最多5条")
		assert.Equal(t, 1, data.Page)
		assert.Equal(t, 5, data.PageSize)

		t.Logf("✓ 分页查询成功，返回%d条，总数%d", len(data.List), data.Total)
	})
}

// TestBookDeleteProtection 测试图书删除保护
func TestBookDeleteProtection(t *testing.T) {
	RequireServer(t)

	_, token := RegisterTestStaff(t)
	memberNo := RegisterTestMember(t, token)

	t.Run("存在借阅记录的图书不可删除", func(t *testing.T) {
		isbn := AddTestBook(t, token, "《删除保护测试》")

		// 查询得到图书ID
		getResp := GetJSON(t, BaseURL+"/books/"+isbn, "")
		require.Equal(t, 0, getResp.Code, "查询图书失败")

		var book BookData
		err := json.Unmarshal(getResp.Data, &book)
		require.NoError(t, err)

		// 产生一条借阅记录
		issueResp := PostJSON(t, BaseURL+"/loans", map[string]string{
			"issue_no": GenerateNo("I"), "member_no": memberNo, "isbn": isbn,
		}, token)
		require.Equal(t, 0, issueResp.Code, "准备借阅数据失败")

		// 删除应该被拒绝
		delResp := doJSON(t, "DELETE", fmt.Sprintf("%s/books/%d", BaseURL, book.ID), nil, token)
		assert.NotEqual(t, 0, delResp.Code, "存在借阅记录应该不可删除")

		t.Logf("✓ 删除保护生效: %s", delResp.Message)
	})
}
