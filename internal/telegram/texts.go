package telegram

// UI texts. The bot replies in plain text except where HTML is noted.
const (
	textStart = "👋 Hi! I manage forum topics in groups.\n\n" +
		"📋 Commands:\n" +
		"/myid - Show your ID\n" +
		"/help - Help"

	textHelp = "📋 <b>Commands:</b>\n\n" +
		"👤 <b>For everyone:</b>\n" +
		"/start - Getting started\n" +
		"/myid - Show your ID\n" +
		"/help - This help\n"

	textHelpAdmin = "\n👑 <b>For admins:</b>\n" +
		"/setup - Configure the close/open schedule\n" +
		"/status - Current settings\n" +
		"/topics - Show tracked topics\n" +
		"/register_topic - Register the current topic for sweeps\n" +
		"/del_topic - Remove the current topic from sweeps\n" +
		"/disable - Disable the schedule\n" +
		"/closenow - Close all topics now\n" +
		"/opennow - Open all topics now\n" +
		"/history - Recent open/close runs\n" +
		"/addadmin - Add an admin\n" +
		"/deladmin - Remove an admin\n" +
		"/admins - List admins\n" +
		"/resetdata - Wipe all bot data"

	textMyIDFmt = "👤 <b>Your info:</b>\n\n" +
		"🆔 User ID: <code>%d</code>\n" +
		"💬 Chat ID: <code>%d</code>\n" +
		"👨‍💻 Username: %s"

	textNoPermission  = "❌ You don't have admin rights"
	textStoreError    = "❌ Storage error, please try again later"
	textNotConfigured = "⚠️ Schedule is not configured. Use /setup"

	textForumOnly     = "❌ This command only works in groups with topics enabled (forums)"
	textCantCheckChat = "❌ Could not check the chat type"

	textAskCloseTime = "⏰ Enter the close time as HH:MM (e.g., 22:00):"
	textAskOpenTime  = "✅ Close time set: %s\n\n⏰ Now enter the open time (e.g., 07:00):"
	textBadTime      = "❌ Invalid time format. Use HH:MM (e.g., 22:00)"

	textSetupDoneFmt = "✅ <b>Setup complete!</b>\n\n" +
		"🕐 Topics close at: <code>%s</code>\n" +
		"🕐 Topics open at: <code>%s</code>\n" +
		"🌍 Timezone: <code>%s</code>\n" +
		"📋 Tracked topics: <b>%d</b>\n\n" +
		"💡 Register topics with /register_topic inside a topic."

	textStatusFmt = "📊 <b>Current settings:</b>\n\n" +
		"🔄 Status: %s\n" +
		"🕐 Close time: <code>%s</code>\n" +
		"🕐 Open time: <code>%s</code>\n" +
		"🌍 Timezone: <code>%s</code>\n" +
		"📋 Tracked topics: <b>%d</b>"

	textStatusEnabled  = "✅ Enabled"
	textStatusDisabled = "❌ Disabled"

	textNoTopics = "ℹ️ No topics yet.\n\n" +
		"💡 The bot records topic names when topics are created or renamed.\n" +
		"Use /register_topic inside a topic to enroll it in sweeps."

	textInsideTopicOnly = "This command must be used inside a forum topic."

	textTopicRegisteredFmt = "✅ Topic registered.\nID: %d\n" +
		"It will now be closed and opened on the schedule."
	textTopicRemovedFmt = "✅ Topic removed from the sweep settings.\nID: %d"

	textDisabled       = "✅ Automatic topic closing disabled"
	textWasNotEnabled  = "⚠️ Schedule was not configured"
	textClosedNowFmt   = "✅ Topics closed: %d (including general)"
	textOpenedNowFmt   = "✅ Topics opened: %d (including general)"
	textSweepFailedFmt = "❌ Error: %v"

	textHistoryTitle = "🗒 <b>Recent runs:</b>\n\n"
	textNoHistory    = "ℹ️ No runs recorded yet."

	textAddAdminUsage = "Usage:\n/addadmin <user_id>\n\nFind a user_id with /myid."
	textDelAdminUsage = "Usage:\n/deladmin <user_id>"
	textBadUserID     = "❌ The ID must be a number."
	textAlreadyAdmin  = "ℹ️ This user is already an admin."
	textNotAnAdmin    = "ℹ️ This user is not an admin."
	textLastAdmin     = "❌ The last admin cannot be removed."
	textAdminAddedFmt = "✅ User <code>%d</code> added to admins."
	textAdminGoneFmt  = "✅ User <code>%d</code> removed from admins."
	textAdminsTitle   = "👑 <b>Current admins:</b>\n\n"

	textResetWarn = "⚠️ WARNING!\n" +
		"This wipes all bot data:\n" +
		"• every topic and schedule\n" +
		"• the dynamic admin list\n\n" +
		"Only the seed admins from the environment remain.\n\n" +
		"To confirm, send:\n/resetdata YES"
	textResetBadConfirm = "❌ Wrong confirmation. Send /resetdata for instructions."
	textResetDone       = "✅ All bot data wiped.\n" +
		"Admins reset to the seed list, schedules removed."
)
