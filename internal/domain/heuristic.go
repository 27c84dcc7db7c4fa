package domain

import (
	"fmt"
	"unicode/utf8"
)

// HeuristicAnalysis is the deterministic, rule-based fallback used when the
// AI backend is unreachable or returns unparseable output. It never fails
// and needs no network.
//
// Scoring:
//
//	Base 60
//	Engagement rate: >5% +20, >3% +15, >1% +10
//	Views: >100000 +10, >10000 +5
//	Title length in [10,30] runes: +5
//	Clamped to [0,100]
func HeuristicAnalysis(rec *VideoRecord) *AnalysisResult {
	rate := rec.EngagementRate()
	titleLen := utf8.RuneCountInString(rec.Title)

	score := 60

	switch {
	case rate > 5:
		score += 20
	case rate > 3:
		score += 15
	case rate > 1:
		score += 10
	}

	switch {
	case rec.Views > 100000:
		score += 10
	case rec.Views > 10000:
		score += 5
	}

	if titleLen >= 10 && titleLen <= 30 {
		score += 5
	}

	score = clampScore(score)

	return &AnalysisResult{
		Score: score,
		Analysis: Analysis{
			ContentQuality: contentQuality(rate),
			EngagementRate: fmt.Sprintf("互动率为 %.2f%%", rate),
			ViralPotential: viralPotential(rec.Views, rate),
			Strengths:      strengths(rec, rate),
			Weaknesses:     weaknesses(rec, rate),
		},
		Suggestions: Suggestions{
			Title:     titleSuggestion(rec.Title),
			Thumbnail: "建议使用对比度高的封面图，突出主题，添加文字说明",
			Timing:    TimingSuggestion(rec.Platform),
			Tags:      TagSuggestions(rec.Platform),
			Content:   "建议在开头3秒内抓住观众注意力，保持内容节奏紧凑",
		},
	}
}

func clampScore(score int) int {
	if score > 100 {
		return 100
	}
	if score < 0 {
		return 0
	}
	return score
}

func contentQuality(rate float64) string {
	switch {
	case rate > 5:
		return "内容质量优秀，观众互动积极，说明内容具有很强的吸引力和价值"
	case rate > 2:
		return "内容质量良好，有一定的观众基础，可进一步优化提升互动"
	default:
		return "内容需要优化，建议从标题、开头、节奏等方面改进以提升观众兴趣"
	}
}

func viralPotential(views int64, rate float64) string {
	switch {
	case views > 50000 && rate > 3:
		return "具有很高的传播潜力，建议持续产出类似高质量内容"
	case views > 10000 || rate > 2:
		return "具有中等传播潜力，优化内容和发布策略可进一步提升"
	default:
		return "传播潜力有限，需要从内容创作和推广策略两方面改进"
	}
}

func strengths(rec *VideoRecord, rate float64) []string {
	var out []string

	if rate > 3 {
		out = append(out, "互动率表现优秀")
	}
	if utf8.RuneCountInString(rec.Title) > 10 {
		out = append(out, "标题描述充分")
	}
	if len(rec.Tags) > 3 {
		out = append(out, "标签使用丰富")
	}
	if rec.Duration > 0 && rec.Duration < 180 {
		out = append(out, "视频时长适中")
	}

	if len(out) == 0 {
		return []string{"内容具有基础传播价值"}
	}
	return out
}

func weaknesses(rec *VideoRecord, rate float64) []string {
	var out []string

	if rate < 2 {
		out = append(out, "互动率偏低，需提升内容吸引力")
	}
	if utf8.RuneCountInString(rec.Title) < 10 {
		out = append(out, "标题过于简短")
	}
	if len(rec.Tags) < 3 {
		out = append(out, "标签使用不足")
	}
	if rec.Duration > 300 {
		out = append(out, "视频时长过长")
	}

	if len(out) == 0 {
		return []string{"暂无明显不足"}
	}
	return out
}

func titleSuggestion(title string) string {
	n := utf8.RuneCountInString(title)
	switch {
	case n == 0:
		return "建议添加吸引人的标题，包含关键词和情感元素"
	case n < 10:
		return "标题偏短，建议扩展到15-25字，增加描述性词汇和情感词汇"
	case n > 35:
		return "标题过长，建议精简到25字以内，突出核心卖点"
	default:
		return "标题长度合适，可考虑添加数字、问号或感叹号增强吸引力"
	}
}

// TimingSuggestion returns the recommended publish window for a platform,
// with a generic default for unrecognized platforms.
func TimingSuggestion(platform Platform) string {
	switch platform {
	case PlatformDouyin:
		return "建议在19:00-22:00发布，这是抖音用户活跃度最高的时段"
	case PlatformBilibili:
		return "建议在20:00-23:00发布，B站用户晚间观看习惯较强"
	case PlatformXiaohongshu:
		return "建议在11:00-13:00或19:00-21:00发布，符合小红书用户作息"
	case PlatformYouTube:
		return "建议在20:00-22:00发布（北京时间），考虑全球用户分布"
	default:
		return "建议在用户活跃度高的时段发布，通常为晚间19:00-22:00"
	}
}

// TagSuggestions returns recommended tags per platform.
func TagSuggestions(platform Platform) []string {
	switch platform {
	case PlatformDouyin:
		return []string{"热门", "推荐", "干货分享", "实用技巧"}
	case PlatformBilibili:
		return []string{"知识分享", "学习", "干货", "教程"}
	case PlatformXiaohongshu:
		return []string{"种草", "分享", "好物推荐", "生活方式"}
	case PlatformYouTube:
		return []string{"tutorial", "howto", "tips", "guide"}
	default:
		return []string{"教程", "分享", "干货", "实用"}
	}
}
