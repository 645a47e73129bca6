package utils

import (
	"strings"
	"unicode"

	"github.com/mozillazg/go-pinyin"
)

// 非汉字原样保留，这样中英文混合的名字也能得到稳定的结果
var keepRuneArgs = func() pinyin.Args {
	args := pinyin.NewArgs()
	args.Fallback = func(r rune, a pinyin.Args) []string {
		return []string{string(r)}
	}
	return args
}()

// NameSortKey 把姓名转换成拼音用于排序，例如 "张伟" -> "zhang wei"
func NameSortKey(name string) string {
	parts := pinyin.LazyConvert(strings.TrimSpace(name), &keepRuneArgs)
	var sb strings.Builder
	for i, part := range parts {
		if i > 0 && isHanPinyin(part) {
			sb.WriteByte(' ')
		}
		sb.WriteString(strings.ToLower(part))
	}
	return sb.String()
}

func isHanPinyin(part string) bool {
	// 拼音结果至少两个字母，单个字符说明是原样保留的非汉字
	return len([]rune(part)) > 1
}

// Slugify 生成只包含小写字母、数字和连字符的标识，例如 "C. Smith" -> "c-smith"，"张伟" -> "zhang-wei"
func Slugify(name string) string {
	parts := pinyin.LazyConvert(strings.TrimSpace(name), &keepRuneArgs)

	var sb strings.Builder
	lastDash := true
	for _, part := range parts {
		if isHanPinyin(part) && !lastDash {
			sb.WriteByte('-')
			lastDash = true
		}
		for _, r := range strings.ToLower(part) {
			switch {
			case unicode.IsLetter(r) && r < unicode.MaxASCII, unicode.IsDigit(r):
				sb.WriteRune(r)
				lastDash = false
			case !lastDash:
				sb.WriteByte('-')
				lastDash = true
			}
		}
		if isHanPinyin(part) && !lastDash {
			sb.WriteByte('-')
			lastDash = true
		}
	}

	return strings.Trim(sb.String(), "-")
}
