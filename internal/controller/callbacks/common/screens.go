package common

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/go-telegram/bot/models"

	"github.com/pratihub/pratihub_bot/internal/controller/callbacks/common/formatting"
	"github.com/pratihub/pratihub_bot/internal/controller/callbacks/common/keyboard"
	"github.com/pratihub/pratihub_bot/internal/meetings"
	"github.com/pratihub/pratihub_bot/internal/model"
	"github.com/pratihub/pratihub_bot/internal/pagination"
)

// Размеры страниц и календаря
const (
	MeetingsPageSize      = 5
	NotificationsPageSize = 5
	ForumPageSize         = 5
	UsersPageSize         = 8
	TeamsPageSize         = 8
	CalendarDays          = 7
	CalendarMaxOffset     = 84 // 12 недель вперёд
	slotsPerRow           = 5
)

// ========================
// Menu & profile
// ========================

// BuildMainMenuScreen главное меню по роли
func BuildMainMenuScreen(sess *model.Session) (string, *models.InlineKeyboardMarkup) {
	text := fmt.Sprintf("🏠 <b>Menu principal</b>\n\nOlá, %s! %s\n\nEscolha uma opção:",
		html.EscapeString(sess.UserName),
		formatting.GetUserTypeDisplay(sess.UserType).String())

	kb := keyboard.NewBuilder().
		Row(
			keyboard.Button("📅 Horários", fmt.Sprintf("%s%d", CalendarPage, 0)),
			keyboard.Button("🗓 Reuniões", MeetingsTab+string(meetings.BucketUpcoming)+":0"),
		)

	if sess.IsAdmin() {
		kb.Row(
			keyboard.Button("👥 Equipes", TeamsPage+"0"),
			keyboard.Button("👤 Usuários", UsersPage+"0"),
		)
	} else {
		kb.Row(
			keyboard.Button("👥 Minha equipe", TeamView),
			keyboard.Button("📋 Kanban", KanbanMy),
		)
	}

	kb.Row(
		keyboard.Button("🔔 Notificações", NotificationsPage+"0"),
		keyboard.Button("💬 Fórum", ForumPage+"0"),
	)
	kb.Row(keyboard.Button("👤 Perfil", Profile))

	return text, kb.Build()
}

// BuildProfileScreen профиль пользователя
func BuildProfileScreen(user *model.User) (string, *models.InlineKeyboardMarkup) {
	status := "✅ Ativo"
	if !user.Active {
		status = "⏸ Inativo"
	}

	var sb strings.Builder
	sb.WriteString("👤 <b>Perfil</b>\n\n")
	fmt.Fprintf(&sb, "Nome: %s\n", html.EscapeString(user.Name))
	fmt.Fprintf(&sb, "E-mail: %s\n", html.EscapeString(user.Email))
	fmt.Fprintf(&sb, "Tipo: %s\n", formatting.GetUserTypeDisplay(user.Type).String())
	fmt.Fprintf(&sb, "Status: %s\n", status)
	if !user.IsAdmin() {
		fmt.Fprintf(&sb, "Humor: %s\n", formatting.GetEmotionalStatusDisplay(user.EmotionalStatus).String())
	}

	kb := keyboard.NewBuilder().Row(keyboard.Button("✏️ Alterar nome", ProfileRename))
	if !user.IsAdmin() {
		kb.Row(keyboard.Button("😊 Como estou hoje", HumorMenu))
	}
	kb.AddBackToMainButton()

	return sb.String(), kb.Build()
}

// BuildHumorScreen выбор эмоционального статуса
func BuildHumorScreen(current string) (string, *models.InlineKeyboardMarkup) {
	text := fmt.Sprintf("😊 <b>Como você está se sentindo hoje?</b>\n\nAtual: %s",
		formatting.GetEmotionalStatusDisplay(current).String())

	buttons := make([]models.InlineKeyboardButton, 0, len(model.EmotionalStatuses))
	for _, status := range model.EmotionalStatuses {
		label := formatting.GetEmotionalStatusDisplay(status).String()
		if status == current {
			label = "• " + label
		}
		buttons = append(buttons, keyboard.Button(label, Humor+status))
	}

	kb := keyboard.NewBuilder().Grid(buttons, 2).AddBackButton(Profile)
	return text, kb.Build()
}

// ========================
// Horários
// ========================

// BuildCalendarScreen выбор дня. admin управляет доступностью, студент записывается к adminName
func BuildCalendarScreen(today time.Time, offset int, admin bool, adminName string) (string, *models.InlineKeyboardMarkup) {
	if offset < 0 {
		offset = 0
	}
	if offset > CalendarMaxOffset {
		offset = CalendarMaxOffset
	}

	var text string
	if admin {
		text = "📅 <b>Minha disponibilidade</b>\n\nEscolha um dia para abrir ou fechar horários:"
	} else {
		text = fmt.Sprintf("📅 <b>Agendar reunião</b>\n\nMentor(a): %s\n\nEscolha um dia:",
			html.EscapeString(adminName))
	}

	kb := keyboard.NewBuilder()
	for i := 0; i < CalendarDays; i++ {
		day := today.AddDate(0, 0, offset+i)
		kb.Row(keyboard.Button(formatting.FormatDayButton(day, today), ViewDay+FormatCallbackDate(day)))
	}
	if nav := keyboard.WeekPagination(CalendarPage, offset, CalendarMaxOffset); len(nav) > 0 {
		kb.Row(nav...)
	}
	kb.AddBackToMainButton()

	return text, kb.Build()
}

// CalendarOffsetFor смещение страницы календаря, на которой находится date
func CalendarOffsetFor(date, today time.Time) int {
	days := int(date.Sub(today).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days / CalendarDays * CalendarDays
}

// BuildDayScreen сетка слотов дня. Администратор переключает слоты, студент выбирает свободный.
func BuildDayScreen(date, today time.Time, grid []model.Slot, admin bool) (string, *models.InlineKeyboardMarkup) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🗓 <b>%s</b>\n\n", formatting.FormatDateWithWeekday(date))
	sb.WriteString(formatting.FormatDaySummary(grid))
	sb.WriteString("\n\n")
	if admin {
		sb.WriteString("Toque em um horário para abrir 🟢 ou fechar ⚪️.\nHorários 🔴 já estão agendados.")
	} else {
		sb.WriteString("Escolha um horário 🟢 disponível.")
	}

	dateArg := FormatCallbackDate(date)
	buttons := make([]models.InlineKeyboardButton, 0, len(grid))
	for _, slot := range grid {
		data := Noop
		switch {
		case admin && !slot.IsPast && !slot.Booked:
			data = ToggleSlot + dateArg + ":" + FormatCallbackTime(slot.Time)
		case !admin && slot.Bookable():
			data = BookSlot + dateArg + ":" + FormatCallbackTime(slot.Time)
		}
		buttons = append(buttons, keyboard.Button(formatting.FormatSlotButton(slot), data))
	}

	kb := keyboard.NewBuilder().
		Grid(buttons, slotsPerRow).
		Row(
			keyboard.Button("🔄 Atualizar", ViewDay+dateArg),
			keyboard.Button("🖼 Imagem", DayImage+dateArg),
		).
		AddBackButton(fmt.Sprintf("%s%d", CalendarPage, CalendarOffsetFor(date, today)))

	return sb.String(), kb.Build()
}

// BuildConfirmBookingScreen подтверждение записи
func BuildConfirmBookingScreen(date time.Time, slot model.Slot, teamName string) (string, *models.InlineKeyboardMarkup) {
	who := "individual"
	if teamName != "" {
		who = "equipe " + html.EscapeString(teamName)
	}
	text := fmt.Sprintf("📌 <b>Confirmar agendamento</b>\n\n🗓 %s\n🕙 %s\n👥 Reunião %s",
		formatting.FormatDateWithWeekday(date), slot.Time, who)

	dateArg := FormatCallbackDate(date)
	kb := keyboard.NewBuilder().Row(keyboard.ConfirmCancelButtons(
		ConfirmBook+dateArg+":"+FormatCallbackTime(slot.Time),
		ViewDay+dateArg,
	)...)
	return text, kb.Build()
}

// ========================
// Reuniões
// ========================

// MeetingTabs вкладки по роли: администратор видит прошедшие вместе
func MeetingTabs(admin bool) []meetings.Bucket {
	if admin {
		return []meetings.Bucket{meetings.BucketUpcoming, meetings.BucketPast}
	}
	return []meetings.Bucket{meetings.BucketUpcoming, meetings.BucketCompleted, meetings.BucketCancelled}
}

// BuildMeetingsScreen список встреч вкладки с пагинацией
func BuildMeetingsScreen(page pagination.Page[model.Appointment], bucket meetings.Bucket, admin bool) (string, *models.InlineKeyboardMarkup) {
	display := formatting.GetBucketDisplay(bucket)

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s <b>Reuniões: %s</b> (%s)\n\n", display.Emoji, display.Text, formatting.CountMeetings(page.Count))
	if page.Count == 0 {
		sb.WriteString("Nenhuma reunião encontrada.")
	} else {
		sb.WriteString(formatting.FormatAppointments(page.Items, page.Number*page.Size, admin))
	}

	kb := keyboard.NewBuilder()

	tabs := MeetingTabs(admin)
	tabButtons := make([]models.InlineKeyboardButton, 0, len(tabs))
	for _, tab := range tabs {
		label := formatting.GetBucketDisplay(tab).Text
		if tab == bucket {
			label = "• " + label
		}
		tabButtons = append(tabButtons, keyboard.Button(label, MeetingsTab+string(tab)+":0"))
	}
	kb.Row(tabButtons...)

	if bucket == meetings.BucketUpcoming {
		for i, a := range page.Items {
			kb.Row(keyboard.Button(
				fmt.Sprintf("❌ Cancelar #%d (%s %s)", page.Number*page.Size+i+1, formatting.FormatAPIDate(a.Date), formatting.FormatClock(a.Time)),
				fmt.Sprintf("%s%s:%s:%d", CancelMeeting, a.ID, bucket, page.Number),
			))
		}
	}

	kb.AddPagination(MeetingsTab+string(bucket)+":", page.Number, page.Total)
	kb.AddBackToMainButton()

	return sb.String(), kb.Build()
}

// BuildCancelMeetingScreen подтверждение отмены встречи
func BuildCancelMeetingScreen(a model.Appointment, admin bool, bucket meetings.Bucket, page int) (string, *models.InlineKeyboardMarkup) {
	text := "⚠️ <b>Cancelar reunião?</b>\n\n" + formatting.FormatAppointmentLine(a, admin)

	back := fmt.Sprintf("%s%s:%d", MeetingsTab, bucket, page)
	kb := keyboard.NewBuilder().Row(
		keyboard.Button("✅ Sim, cancelar", fmt.Sprintf("%s%s:%s:%d", ConfirmCancelMeeting, a.ID, bucket, page)),
		keyboard.Button("↩️ Não", back),
	)
	return text, kb.Build()
}

// ========================
// Equipe & Kanban
// ========================

// CanManageTeam руководитель команды или администратор
func CanManageTeam(sess *model.Session, team *model.Team) bool {
	if sess.IsAdmin() {
		return true
	}
	for _, m := range team.Members {
		if m.UserID == sess.UserID && m.Role == "leader" {
			return true
		}
	}
	return false
}

// BuildTeamScreen экран команды; team == nil значит что пользователь без команды
func BuildTeamScreen(sess *model.Session, team *model.Team) (string, *models.InlineKeyboardMarkup) {
	kb := keyboard.NewBuilder()

	if team == nil {
		kb.Row(keyboard.Button("➕ Criar equipe", TeamCreate)).AddBackToMainButton()
		return "👥 <b>Equipe</b>\n\nVocê ainda não faz parte de uma equipe.", kb.Build()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "👥 <b>%s</b>\n\nMembros (%d):\n", html.EscapeString(team.Name), len(team.Members))
	for _, m := range team.Members {
		role := ""
		if m.Role == "leader" {
			role = " ⭐"
		}
		name := m.Name
		if name == "" {
			name = "#" + m.UserID.String()
		}
		fmt.Fprintf(&sb, "• %s%s\n", html.EscapeString(name), role)
	}

	manage := CanManageTeam(sess, team)
	if manage {
		kb.Row(
			keyboard.Button("➕ Adicionar membro", TeamAddMember),
			keyboard.Button("✏️ Renomear", TeamRename),
		)
		for _, m := range team.Members {
			if m.UserID == sess.UserID {
				continue
			}
			name := m.Name
			if name == "" {
				name = "#" + m.UserID.String()
			}
			kb.Row(keyboard.Button("➖ Remover "+formatting.Truncate(name, 24), TeamRemoveMember+m.UserID.String()))
		}
	}

	kb.Row(keyboard.Button("📋 Kanban do projeto", KanbanBoard+team.ID.String()))
	if sess.IsAdmin() {
		kb.AddBackButton(TeamsPage + "0")
	} else {
		kb.AddBackToMainButton()
	}

	return sb.String(), kb.Build()
}

// BuildTeamsListScreen список команд для администратора
func BuildTeamsListScreen(page pagination.Page[model.Team]) (string, *models.InlineKeyboardMarkup) {
	text := fmt.Sprintf("👥 <b>Equipes</b> (%d)\n\nEscolha uma equipe:", page.Count)
	if page.Count == 0 {
		text = "👥 <b>Equipes</b>\n\nNenhuma equipe cadastrada."
	}

	kb := keyboard.NewBuilder()
	for _, team := range page.Items {
		kb.Row(keyboard.Button(
			fmt.Sprintf("%s (%d)", formatting.Truncate(team.Name, 40), len(team.Members)),
			TeamOpen+team.ID.String(),
		))
	}
	kb.AddPagination(TeamsPage, page.Number, page.Total)
	kb.AddBackToMainButton()
	return text, kb.Build()
}

// BuildKanbanScreen доска фаз проекта
func BuildKanbanScreen(team *model.Team, board *model.ProjectProgress) (string, *models.InlineKeyboardMarkup) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📋 <b>Kanban: %s</b>\n\nProgresso: %d%%\n\n", html.EscapeString(team.Name), board.Percent())

	kb := keyboard.NewBuilder()
	for i, phase := range board.Phases {
		display := formatting.GetPhaseStatusDisplay(phase.Status)
		fmt.Fprintf(&sb, "%s %s: %s\n", display.Emoji, html.EscapeString(phase.Name), display.Text)

		next := formatting.GetPhaseStatusDisplay(phase.Status.Next())
		kb.Row(keyboard.Button(
			fmt.Sprintf("%s → %s", formatting.Truncate(phase.Name, 20), next.String()),
			fmt.Sprintf("%s%s:%d", KanbanAdvance, team.ID, i),
		))
	}

	kb.AddBackButton(TeamOpen + team.ID.String())
	return sb.String(), kb.Build()
}

// ========================
// Notificações
// ========================

// BuildNotificationsScreen лента уведомлений
func BuildNotificationsScreen(page pagination.Page[model.Notification], unread int, admin bool) (string, *models.InlineKeyboardMarkup) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🔔 <b>Notificações</b> (%d não lidas)\n\n", unread)
	if page.Count == 0 {
		sb.WriteString("Nenhuma notificação.")
	}

	kb := keyboard.NewBuilder()
	for i, n := range page.Items {
		mark := "📭"
		if !n.Read {
			mark = "📬"
		}
		num := page.Number*page.Size + i + 1
		fmt.Fprintf(&sb, "%s <b>%d. %s</b>\n%s\n\n", mark, num, html.EscapeString(n.Title), html.EscapeString(n.Message))

		row := make([]models.InlineKeyboardButton, 0, 2)
		if !n.Read {
			row = append(row, keyboard.Button(fmt.Sprintf("✔️ Lida #%d", num), fmt.Sprintf("%s%s:%d", NotificationRead, n.ID, page.Number)))
		}
		row = append(row, keyboard.Button(fmt.Sprintf("🗑 Excluir #%d", num), fmt.Sprintf("%s%s:%d", NotificationDelete, n.ID, page.Number)))
		kb.Row(row...)
	}

	kb.AddPagination(NotificationsPage, page.Number, page.Total)
	if admin {
		kb.Row(keyboard.Button("✉️ Enviar notificação", NotificationNew+"0"))
	}
	kb.AddBackToMainButton()

	return sb.String(), kb.Build()
}

// BuildStudentPickerScreen выбор получателя уведомления
func BuildStudentPickerScreen(page pagination.Page[model.User]) (string, *models.InlineKeyboardMarkup) {
	kb := keyboard.NewBuilder()
	for _, u := range page.Items {
		kb.Row(keyboard.Button(formatting.Truncate(u.Name, 40), NotificationTo+u.ID.String()))
	}
	kb.AddPagination(NotificationNew, page.Number, page.Total)
	kb.AddBackButton(NotificationsPage + "0")
	return "✉️ <b>Enviar notificação</b>\n\nEscolha o estudante:", kb.Build()
}

// ========================
// Fórum
// ========================

// BuildForumScreen список постов
func BuildForumScreen(page pagination.Page[model.Post]) (string, *models.InlineKeyboardMarkup) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "💬 <b>Fórum</b> (%d)\n\n", page.Count)
	if page.Count == 0 {
		sb.WriteString("Ainda não há publicações. Seja o primeiro!")
	}

	kb := keyboard.NewBuilder()
	for _, p := range page.Items {
		kb.Row(keyboard.Button("📝 "+formatting.Truncate(p.Title, 48), ForumPost+p.ID.String()))
	}
	kb.AddPagination(ForumPage, page.Number, page.Total)
	kb.Row(keyboard.Button("➕ Nova publicação", ForumNewPost))
	kb.AddBackToMainButton()

	return sb.String(), kb.Build()
}

// BuildPostScreen пост с комментариями
func BuildPostScreen(post *model.Post, comments []model.Comment) (string, *models.InlineKeyboardMarkup) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📝 <b>%s</b>\n", html.EscapeString(post.Title))
	if post.AuthorName != "" {
		fmt.Fprintf(&sb, "por %s\n", html.EscapeString(post.AuthorName))
	}
	fmt.Fprintf(&sb, "\n%s\n\n💬 %s\n", html.EscapeString(post.Content), formatting.CountComments(len(comments)))
	for _, c := range comments {
		author := c.AuthorName
		if author == "" {
			author = "Anônimo"
		}
		fmt.Fprintf(&sb, "\n<b>%s:</b> %s", html.EscapeString(author), html.EscapeString(formatting.Truncate(c.Content, 300)))
	}

	kb := keyboard.NewBuilder().
		Row(keyboard.Button("💬 Comentar", ForumComment+post.ID.String())).
		AddBackButton(ForumPage + "0")

	return sb.String(), kb.Build()
}

// ========================
// Usuários
// ========================

// BuildUsersScreen список пользователей с активацией
func BuildUsersScreen(page pagination.Page[model.User], self model.ID) (string, *models.InlineKeyboardMarkup) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "👤 <b>Usuários</b> (%d)\n\n", page.Count)

	kb := keyboard.NewBuilder()
	for _, u := range page.Items {
		state := "✅"
		if !u.Active {
			state = "⏸"
		}
		fmt.Fprintf(&sb, "%s %s • %s\n", state, html.EscapeString(u.Name), formatting.GetUserTypeDisplay(u.Type).Text)

		if u.ID == self {
			continue
		}
		if u.Active {
			kb.Row(keyboard.Button("⏸ Desativar "+formatting.Truncate(u.Name, 28), fmt.Sprintf("%s%s:%d", UserDeactivate, u.ID, page.Number)))
		} else {
			kb.Row(keyboard.Button("✅ Ativar "+formatting.Truncate(u.Name, 28), fmt.Sprintf("%s%s:%d", UserActivate, u.ID, page.Number)))
		}
	}

	kb.AddPagination(UsersPage, page.Number, page.Total)
	kb.AddBackToMainButton()
	return sb.String(), kb.Build()
}
