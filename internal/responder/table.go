package responder

var DefaultRules = []Rule{
	{Keyword: "你好", Replies: []string{"你好啊！", "很高兴见到你！", "哈喽~"}},
	{Keyword: "再见", Replies: []string{"再见啦！", "下次再聊！", "88~"}},
	{Keyword: "天气", Replies: []string{"今天天气确实不错呢！", "是个出去玩的好日子~", "适合躺平刷剧呢！"}},
	{Keyword: "名字", Replies: []string{"我是AI助手，很高兴认识你！"}},
	{Keyword: "无聊", Replies: []string{"要不我们来玩个游戏？", "我可以给你讲个笑话！", "我们来聊聊天吧！"}},
	{Keyword: "笑话", Replies: []string{
		"为什么程序员总是分不清万圣节和圣诞节？因为 Oct 31 = Dec 25！",
		"一个程序员去买面包，老板问：\"要几个？\" 程序员说：\"要 8 个。\" 老板给了他 8 个面包。程序员说：\"不对，我要的是 1000 个！\"",
		"为什么程序员不喜欢户外运动？因为有太多 bug！",
	}},
}

var DefaultReplies = []string{
	"嗯嗯，继续说~",
	"真的吗？好有趣！",
	"我明白你的意思~",
	"要不换个话题？",
	"你说得对！",
	"这个问题很有意思呢",
}
