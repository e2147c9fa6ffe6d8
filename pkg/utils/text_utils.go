package utils

import (
	"strings"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// WrapText 按像素宽度换行
//
// 优先在空格处断行；单个词比 maxWidth 还宽时按字符强制断开。
// 题目、解析和结算摘要都可能比窗口宽，绘制前先经过这里。
func WrapText(s string, face text.Face, maxWidth float64) []string {
	if s == "" || face == nil || maxWidth <= 0 || measure(s, face) <= maxWidth {
		return []string{s}
	}

	var lines []string
	line := ""
	for _, word := range strings.Fields(s) {
		candidate := word
		if line != "" {
			candidate = line + " " + word
		}
		if measure(candidate, face) <= maxWidth {
			line = candidate
			continue
		}
		if line != "" {
			lines = append(lines, line)
		}
		// 超长单词按字符拆开，最后一段留在当前行
		parts := splitRunes(word, face, maxWidth)
		lines = append(lines, parts[:len(parts)-1]...)
		line = parts[len(parts)-1]
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

// splitRunes 把单词按字符拆成不超过 maxWidth 的若干段（至少一段）
func splitRunes(word string, face text.Face, maxWidth float64) []string {
	var parts []string
	cur := ""
	for _, r := range word {
		next := cur + string(r)
		if cur != "" && measure(next, face) > maxWidth {
			parts = append(parts, cur)
			next = string(r)
		}
		cur = next
	}
	return append(parts, cur)
}

func measure(s string, face text.Face) float64 {
	w, _ := text.Measure(s, face, 0)
	return w
}
