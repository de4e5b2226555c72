package integration

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 流通模块集成测试
//
// 测试场景覆盖：
// 1. 借出→拒借→归还→重复归还→再次借出的完整状态流转
// 2. 拒借和重复归还是业务结果(outcome=declined),不是HTTP错误
// 3. 图书/读者不存在等错误路径
// 4. 滞纳金批处理的幂等性

// TestCirculationFlow 测试完整借还流程
func TestCirculationFlow(t *testing.T) {
	RequireServer(t)

	_, token := RegisterTestStaff(t)
	isbn := AddTestBook(t, token, "《Go语言实战》")
	memberNo := RegisterTestMember(t, token)

	issueNo := GenerateNo("I")

	t.Run("正常借出", func(t *testing.T) {
		issueReq := map[string]string{
			"issue_no":  issueNo,
			"member_no": memberNo,
			"isbn":      isbn,
		}

		resp := PostJSON(t, BaseURL+"/loans", issueReq, token)
		require.Equal(t, 0, resp.Code, "借出应该成功: %s", resp.Message)

		var data IssueData
		err := json.Unmarshal(resp.Data, &data)
		require.NoError(t, err, "解析借出响应失败")

		assert.Equal(t, "ok", data.Outcome, "首次借出应该成功")
		assert.Equal(t, issueNo, data.IssueNo)
		assert.Equal(t, isbn, data.ISBN)
		assert.NotEmpty(t, data.IssueDate, "借出日期应该回填")

		t.Logf("✓ 借出成功，借阅单号: %s", data.IssueNo)
	})

	t.Run("在借图书拒借", func(t *testing.T) {
		// 同一本书未归还,再次借出应拒借而非报错
		issueReq := map[string]string{
			"issue_no":  GenerateNo("I"),
			"member_no": memberNo,
			"isbn":      isbn,
		}

		resp := PostJSON(t, BaseURL+"/loans", issueReq, token)
		require.Equal(t, 0, resp.Code, "拒借仍是成功响应: %s", resp.Message)

		var data IssueData
		err := json.Unmarshal(resp.Data, &data)
		require.NoError(t, err, "解析借出响应失败")

		assert.Equal(t, "declined", data.Outcome, "在借图书应该拒借")

		t.Logf("✓ 在借图书正确拒借: %s", data.Message)
	})

	returnNo := GenerateNo("R")

	t.Run("正常归还", func(t *testing.T) {
		returnReq := map[string]string{
			"return_no": returnNo,
			"issue_no":  issueNo,
		}

		resp := PostJSON(t, BaseURL+"/returns", returnReq, token)
		require.Equal(t, 0, resp.Code, "归还应该成功: %s", resp.Message)

		var data ReturnData
		err := json.Unmarshal(resp.Data, &data)
		require.NoError(t, err, "解析归还响应失败")

		assert.Equal(t, "ok", data.Outcome, "首次归还应该成功")
		assert.Equal(t, returnNo, data.ReturnNo)
		assert.Equal(t, isbn, data.ISBN, "归还记录应该快照ISBN")
		assert.Equal(t, "《Go语言实战》", data.BookTitle, "归还记录应该快照书名")
		assert.Equal(t, int64(0), data.LateFee, "未超期归还滞纳金应该为0")

		t.Logf("✓ 归还成功，归还单号: %s", data.ReturnNo)
	})

	t.Run("重复归还拒绝", func(t *testing.T) {
		returnReq := map[string]string{
			"return_no": GenerateNo("R"),
			"issue_no":  issueNo,
		}

		resp := PostJSON(t, BaseURL+"/returns", returnReq, token)
		require.Equal(t, 0, resp.Code, "重复归还仍是成功响应: %s", resp.Message)

		var data ReturnData
		err := json.Unmarshal(resp.Data, &data)
		require.NoError(t, err, "解析归还响应失败")

		assert.Equal(t, "declined", data.Outcome, "重复归还应该被拒绝")

		t.Logf("✓ 重复归还正确被拒绝: %s", data.Message)
	})

	t.Run("归还后可再次借出", func(t *testing.T) {
		issueReq := map[string]string{
			"issue_no":  GenerateNo("I"),
			"member_no": memberNo,
			"isbn":      isbn,
		}

		resp := PostJSON(t, BaseURL+"/loans", issueReq, token)
		require.Equal(t, 0, resp.Code, "再次借出应该成功: %s", resp.Message)

		var data IssueData
		err := json.Unmarshal(resp.Data, &data)
		require.NoError(t, err, "解析借出响应失败")

		assert.Equal(t, "ok", data.Outcome, "归还后的图书应该可以再次借出")

		t.Logf("✓ 归还后再次借出成功")
	})
}

// TestIssueErrorPaths 测试借出错误路径
func TestIssueErrorPaths(t *testing.T) {
	RequireServer(t)

	_, token := RegisterTestStaff(t)
	memberNo := RegisterTestMember(t, token)

	t.Run("图书不存在", func(t *testing.T) {
		issueReq := map[string]string{
			"issue_no":  GenerateNo("I"),
			"member_no": memberNo,
			"isbn":      "9780000000000", // 不存在的ISBN
		}

		resp := PostJSON(t, BaseURL+"/loans", issueReq, token)
		assert.NotEqual(t, 0, resp.Code, "图书不存在应该返回错误")

		t.Logf("✓ 图书不存在正确返回错误: %s", resp.Message)
	})

	t.Run("读者不存在", func(t *testing.T) {
		isbn := AddTestBook(t, token, "《错误路径测试》")
		issueReq := map[string]string{
			"issue_no":  GenerateNo("I"),
			"member_no": "M_NOT_EXIST",
			"isbn":      isbn,
		}

		resp := PostJSON(t, BaseURL+"/loans", issueReq, token)
		assert.NotEqual(t, 0, resp.Code, "读者不存在应该返回错误")

		t.Logf("✓ 读者不存在正确返回错误: %s", resp.Message)
	})

	t.Run("未登录不能借出", func(t *testing.T) {
		issueReq := map[string]string{
			"issue_no":  GenerateNo("I"),
			"member_no": memberNo,
			"isbn":      "9787115428028",
		}

		resp := PostJSON(t, BaseURL+"/loans", issueReq, "") // 空token
		assert.NotEqual(t, 0, resp.Code, "未登录应该失败")

		t.Logf("✓ 未登录正确被拒绝: %s", resp.Message)
	})

	t.Run("借阅单号重复", func(t *testing.T) {
		isbn1 := AddTestBook(t, token, "《单号冲突A》")
		isbn2 := AddTestBook(t, token, "《单号冲突B》")
		issueNo := GenerateNo("I")

		resp1 := PostJSON(t, BaseURL+"/loans", map[string]string{
			"issue_no": issueNo, "member_no": memberNo, "isbn": isbn1,
		}, token)
		require.Equal(t, 0, resp1.Code, "第一次借出应该成功")

		// 相同借阅单号借另一本书
		resp2 := PostJSON(t, BaseURL+"/loans", map[string]string{
			"issue_no": issueNo, "member_no": memberNo, "isbn": isbn2,
		}, token)
		assert.NotEqual(t, 0, resp2.Code, "重复借阅单号应该失败")

		t.Logf("✓ 重复借阅单号正确返回错误: %s", resp2.Message)
	})
}

// TestReturnErrorPaths 测试归还错误路径
func TestReturnErrorPaths(t *testing.T) {
	RequireServer(t)

	_, token := RegisterTestStaff(t)

	t.Run("借阅单不存在", func(t *testing.T) {
		returnReq := map[string]string{
			"return_no": GenerateNo("R"),
			"issue_no":  "I_NOT_EXIST",
		}

		resp := PostJSON(t, BaseURL+"/returns", returnReq, token)
		assert.NotEqual(t, 0, resp.Code, "借阅单不存在应该返回错误")

		t.Logf("✓ 借阅单不存在正确返回错误: %s", resp.Message)
	})
}

// TestAssessLateFees 测试滞纳金批处理
func TestAssessLateFees(t *testing.T) {
	RequireServer(t)

	_, token := RegisterTestStaff(t)

	t.Run("批处理幂等执行", func(t *testing.T) {
		// 连续执行两次,结果结构一致且不报错
		for i := 1; i <= 2; i++ {
			resp := PostJSON(t, BaseURL+"/loans/assess-late-fees", nil, token)
			require.Equal(t, 0, resp.Code, "第%d次批处理应该成功: %s", i, resp.Message)

			var data AssessData
			err := json.Unmarshal(resp.Data, &data)
			require.NoError(t, err, "解析批处理响应失败")

			assert.Equal(t, data.Scanned, data.Updated+data.Skipped+data.Failed,
				"扫描数应该等于回写+跳过+失败之和")

			t.Logf("✓ 第%d次批处理: 扫描%d 回写%d 跳过%d 失败%d",
				i, data.Scanned, data.Updated, data.Skipped, data.Failed)
		}
	})
}

// TestMemberLoanHistory 测试读者借阅历史
func TestMemberLoanHistory(t *testing.T) {
	RequireServer(t)

	_, token := RegisterTestStaff(t)
	isbn := AddTestBook(t, token, "《历史查询测试》")
	memberNo := RegisterTestMember(t, token)

	issueNo := GenerateNo("I")
	issueResp := PostJSON(t, BaseURL+"/loans", map[string]string{
		"issue_no": issueNo, "member_no": memberNo, "isbn": isbn,
	}, token)
	require.Equal(t, 0, issueResp.Code, "准备借阅数据失败")

	t.Run("历史包含刚借出的记录", func(t *testing.T) {
		url := fmt.Sprintf("%s/members/%s/loans", BaseURL, memberNo)
		resp := GetJSON(t, url, token)
		require.Equal(t, 0, resp.Code, "查询借阅历史失败: %s", resp.Message)

		var data struct {
			List []struct {
				IssueNo string `json:"issue_no"`
				ISBN    string `json:"isbn"`
			} `json:"list"`
			Total int64 `json:"total"`
		}
		err := json.Unmarshal(resp.Data, &data)
		require.NoError(t, err, "解析历史响应失败")

		require.GreaterOrEqual(t, data.Total, int64(1), "至少有1条借阅记录")

		found := false
		for _, item := range data.List {
			if item.IssueNo == issueNo {
				found = true
				assert.Equal(t, isbn, item.ISBN)
			}
		}
		assert.True(t, found, "历史中应该包含刚借出的借阅单")

		t.Logf("✓ 借阅历史查询成功，共%d条", data.Total)
	})

	t.Run("读者不存在返回错误", func(t *testing.T) {
		resp := GetJSON(t, BaseURL+"/members/M_NOT_EXIST/loans", token)
		assert.NotEqual(t, 0, resp.Code, "读者不存在应该返回错误")

		t.Logf("✓ 读者不存在正确返回错误: %s", resp.Message)
	})
}
