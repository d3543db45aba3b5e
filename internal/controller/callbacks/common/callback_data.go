package common

// ========================
// Callback Data Patterns
// ========================
// Telegram ограничивает callback data 64 байтами, поэтому префиксы короткие.
// Аргументы разделяются ':'; дата кодируется как YYYYMMDD, время как HHMM.

// Common callbacks
const (
	BackToMain = "back_to_main"
	Noop       = "noop"
	Profile    = "profile"
)

// Horários
const (
	CalendarPage = "cal:"          // cal:offset
	ViewDay      = "day:"          // day:20250115
	DayImage     = "day_img:"      // day_img:20250115
	ToggleSlot   = "toggle_slot:"  // toggle_slot:20250115:1000
	BookSlot     = "book_slot:"    // book_slot:20250115:1000
	ConfirmBook  = "confirm_book:" // confirm_book:20250115:1000
)

// Reuniões
const (
	MeetingsTab          = "meet_tab:"     // meet_tab:bucket:page
	CancelMeeting        = "meet_cancel:"  // meet_cancel:id:bucket:page
	ConfirmCancelMeeting = "meet_confirm:" // meet_confirm:id:bucket:page
)

// Equipe
const (
	TeamView         = "team_view"
	TeamCreate       = "team_create"
	TeamRename       = "team_rename"
	TeamAddMember    = "team_add"
	TeamRemoveMember = "team_rm:"     // team_rm:userID
	TeamsPage        = "teams_page:"  // teams_page:page (администратор)
	TeamOpen         = "team_open:"   // team_open:teamID
	KanbanMy         = "kanban_my"    // канбан своей команды
	KanbanBoard      = "kanban:"      // kanban:teamID
	KanbanAdvance    = "kanban_adv:"  // kanban_adv:teamID:phase
)

// Notificações
const (
	NotificationsPage  = "notif_page:" // notif_page:page
	NotificationRead   = "notif_read:" // notif_read:id:page
	NotificationDelete = "notif_del:"  // notif_del:id:page
	NotificationNew    = "notif_new:"  // notif_new:page, выбор студента
	NotificationTo     = "notif_to:"   // notif_to:userID
)

// Fórum
const (
	ForumPage    = "forum_page:"    // forum_page:page
	ForumPost    = "forum_post:"    // forum_post:id
	ForumNewPost = "forum_new"
	ForumComment = "forum_comment:" // forum_comment:postID
)

// Perfil e humor
const (
	HumorMenu     = "humor_menu"
	Humor         = "humor:" // humor:STATUS
	ProfileRename = "profile_rename"
)

// Usuários (administrador)
const (
	UsersPage      = "users_page:" // users_page:page
	UserActivate   = "user_on:"    // user_on:id:page
	UserDeactivate = "user_off:"   // user_off:id:page
)
