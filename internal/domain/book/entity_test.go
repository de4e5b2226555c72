package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestNewBook 测试新书入库的初始状态
func TestNewBook(t *testing.T) {
	b := NewBook("9787115428028", "Go语言实战", "计算机", "William Kennedy", "人民邮电出版社", 500)

	assert.Equal(t, "9787115428028", b.ISBN)
	assert.Equal(t, StatusAvailable, b.Status, "新书入库应为在架状态")
	assert.True(t, b.IsAvailable())
}

// TestBook_MarkOnLoan 测试借出状态流转
func TestBook_MarkOnLoan(t *testing.T) {
	t.Run("在架图书可以借出", func(t *testing.T) {
		b := NewBook("9787115428028", "Go语言实战", "计算机", "William Kennedy", "人民邮电出版社", 500)

		err := b.MarkOnLoan()

		assert.NoError(t, err)
		assert.Equal(t, StatusOnLoan, b.Status)
		assert.False(t, b.IsAvailable())
	})

	t.Run("已借出图书不能重复借出", func(t *testing.T) {
		b := NewBook("9787115428028", "Go语言实战", "计算机", "William Kennedy", "人民邮电出版社", 500)
		_ = b.MarkOnLoan()

		err := b.MarkOnLoan()

		assert.ErrorIs(t, err, ErrBookOnLoan)
		assert.Equal(t, StatusOnLoan, b.Status, "状态不应被改变")
	})
}

// TestBook_MarkAvailable 测试归还状态流转
func TestBook_MarkAvailable(t *testing.T) {
	b := NewBook("9787115428028", "Go语言实战", "计算机", "William Kennedy", "人民邮电出版社", 500)
	_ = b.MarkOnLoan()

	b.MarkAvailable()

	assert.Equal(t, StatusAvailable, b.Status)
	assert.True(t, b.IsAvailable(), "归还后图书应可再次借出")
}

// TestBook_UpdatePrice 测试租价校验
func TestBook_UpdatePrice(t *testing.T) {
	b := NewBook("9787115428028", "Go语言实战", "计算机", "William Kennedy", "人民邮电出版社", 500)

	assert.NoError(t, b.UpdatePrice(600))
	assert.Equal(t, int64(600), b.Price)

	assert.ErrorIs(t, b.UpdatePrice(-1), ErrInvalidPrice)
	assert.Equal(t, int64(600), b.Price, "非法租价不应生效")
}

// TestStatus_String 测试状态的可读输出
func TestStatus_String(t *testing.T) {
	assert.Equal(t, "在架", StatusAvailable.String())
	assert.Equal(t, "借出", StatusOnLoan.String())
	assert.Equal(t, "未知状态", Status(99).String())
}

// TestIsValidISBN 测试ISBN格式校验
func TestIsValidISBN(t *testing.T) {
	cases := []struct {
		isbn  string
		valid bool
	}{
		{"9787115428028", true},     // ISBN-13
		{"7115428026", true},        // ISBN-10
		{"978-7-115-42802-8", true}, // 带分隔符
		{"123", false},              // 位数不足
		{"", false},
	}

	for _, c := range cases {
		assert.Equal(t, c.valid, IsValidISBN(c.isbn), "isbn=%s", c.isbn)
	}
}
