package adminusers

import (
	"fmt"
	"html"
	"strings"

	sharedhtml "scanstation/frontend/shared/html"
	"scanstation/frontend/shared/nav"
)

func UsersListPage(data PageData) string {
	var b strings.Builder
	b.WriteString(`<h1>Admin Users</h1>`)
	if data.Status != "" {
		fmt.Fprintf(&b, `<div class="message success">%s</div>`, html.EscapeString(data.Status))
	}
	if data.ErrorMessage != "" {
		fmt.Fprintf(&b, `<div class="message error">%s</div>`, html.EscapeString(data.ErrorMessage))
	}

	b.WriteString(`<form method="post" action="` + usersPath + `" class="add-user-form">`)
	b.WriteString(`<input type="text" name="username" placeholder="Username" required>`)
	b.WriteString(`<input type="password" name="password" placeholder="Password" required>`)
	b.WriteString(`<select name="role">`)
	for _, role := range data.Roles {
		fmt.Fprintf(&b, `<option value="%s">%s</option>`, html.EscapeString(role), html.EscapeString(role))
	}
	b.WriteString(`</select><button type="submit">Add User</button></form>`)

	b.WriteString(`<table class="users"><thead><tr><th>Username</th><th>Role</th><th>Actions</th></tr></thead><tbody>`)
	if len(data.Users) == 0 {
		b.WriteString(`<tr><td colspan="3">No users found.</td></tr>`)
	}
	for _, u := range data.Users {
		name := html.EscapeString(u.Username)
		fmt.Fprintf(&b, `<tr><td>%s</td><td>%s</td><td>`, name, html.EscapeString(u.Role))
		fmt.Fprintf(&b, `<button type="button" class="edit-btn" data-id="%d" data-username="%s">Change Password</button>`, u.ID, name)
		fmt.Fprintf(&b, `<form method="post" action="%s/%d/delete" class="inline" onsubmit="return confirm('Are you sure you want to delete this user?');"><button type="submit" class="danger">Delete</button></form>`, usersPath, u.ID)
		b.WriteString(`</td></tr>`)
	}
	b.WriteString(`</tbody></table>`)

	b.WriteString(`<div id="password-modal" class="modal" style="display:none"><div class="modal-content">`)
	b.WriteString(`<button type="button" id="modal-close" class="close-btn">&times;</button>`)
	b.WriteString(`<h2>Change Password for <span id="modal-username"></span></h2>`)
	b.WriteString(`<form method="post" id="password-form"><input type="password" name="password" placeholder="New password" required><button type="submit">Update Password</button></form>`)
	b.WriteString(`</div></div>`)
	b.WriteString(usersScript)

	return sharedhtml.RenderPage(sharedhtml.PageData{
		Title:  "Admin Users",
		Active: nav.KeyUsers,
		Role:   data.Role,
		Body:   b.String(),
	})
}

const usersScript = `<script>
(function () {
  var modal = document.getElementById("password-modal");
  var form = document.getElementById("password-form");
  var label = document.getElementById("modal-username");
  function close() { modal.style.display = "none"; form.reset(); }
  var buttons = document.querySelectorAll(".edit-btn");
  for (var i = 0; i < buttons.length; i++) {
    buttons[i].addEventListener("click", function (e) {
      var btn = e.currentTarget;
      form.action = "/tasker/admin/users/" + btn.dataset.id + "/password";
      label.textContent = btn.dataset.username;
      modal.style.display = "block";
    });
  }
  document.getElementById("modal-close").addEventListener("click", close);
  window.addEventListener("click", function (e) { if (e.target === modal) close(); });
})();
</script>`
