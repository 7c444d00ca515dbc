package http

type faqItem struct {
	Question string
	Answer   string
}

var faqItems = []faqItem{
	{
		Question: "What is included in a Nintendo account purchase?",
		Answer:   "Each Nintendo account comes with a collection of games and DLCs that have been previously purchased. The exact contents vary by account, but you can see the full list of games and DLCs in the account details before purchasing.",
	},
	{
		Question: "How do I access the games after purchase?",
		Answer:   "After your purchase is confirmed, you will receive the account credentials via email. You can then log in to your Nintendo Switch using these credentials to access all the games and DLCs included in the account.",
	},
	{
		Question: "Is it safe to purchase Nintendo accounts?",
		Answer:   "Yes, all our accounts are verified and come with a guarantee. We ensure that all accounts are legitimate and have been properly purchased. We also provide support in case of any issues with accessing the games.",
	},
	{
		Question: "Can I play the games online?",
		Answer:   "Yes, you can play the games online as long as you have an active Nintendo Switch Online subscription. The account purchase includes the games, but the online subscription is separate and needs to be purchased from Nintendo.",
	},
	{
		Question: "What payment methods do you accept?",
		Answer:   "We accept various payment methods including credit cards, PayPal, and cryptocurrency. All payments are processed securely through our payment providers.",
	},
	{
		Question: "Can I transfer the games to my main Nintendo account?",
		Answer:   "No, the games are tied to the Nintendo account they were purchased on. You cannot transfer them to another account. However, you can use the purchased account on your Nintendo Switch alongside your main account.",
	},
	{
		Question: "What is your refund policy?",
		Answer:   "We offer a 24-hour refund policy if you are unable to access the games or if there are any issues with the account. Please contact our support team for assistance with refunds.",
	},
	{
		Question: "How long does it take to receive the account details?",
		Answer:   "Account details are typically sent within 1-2 hours after purchase. In rare cases, it may take up to 24 hours. You will receive an email with the account credentials and instructions.",
	},
}
