package storage

const (
	listAccountsSQL = `
SELECT a.id, a.nickname, a.final_price,
       t.item_name, t.price, t.purchase_date, t.type, t.cover_image
FROM nintendo_accounts a
LEFT JOIN account_transactions t ON t.account_id = a.id
ORDER BY a.nickname, a.id, t.id`

	countAccountsSQL = `SELECT COUNT(*) FROM nintendo_accounts`

	upsertAccountSQL = `
INSERT INTO nintendo_accounts (id, nickname, final_price)
VALUES (?, ?, ?)
ON CONFLICT(id) DO UPDATE SET nickname = excluded.nickname, final_price = excluded.final_price`

	deleteTransactionsSQL = `DELETE FROM account_transactions WHERE account_id = ?`

	insertTransactionSQL = `
INSERT INTO account_transactions (account_id, item_name, price, purchase_date, type, cover_image)
VALUES (?, ?, ?, ?, ?, ?)`

	insertIntentSQL = `
INSERT INTO purchase_intents (id, account_id, nickname, price, currency, channel, message, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO NOTHING`

	markIntentNotifiedSQL = `UPDATE purchase_intents SET notified_at = CURRENT_TIMESTAMP WHERE id = ?`

	intentNotifiedSQL = `SELECT notified_at IS NOT NULL FROM purchase_intents WHERE id = ?`
)
