package web

// dashboardHTML is the static check-in form. No server-side state is
// reflected in the page.
const dashboardHTML = `<!DOCTYPE html>
<html>
<head>
<title>Execution Dashboard</title>
<style>
body {
    display:flex; justify-content:center; align-items:center;
    height:100vh; margin:0; font-family:Arial; background:#f4f4f4;
}
.container {
    background:white; padding:40px; border-radius:10px;
    width:450px; box-shadow:0 4px 12px rgba(0,0,0,.1);
}
textarea { width:100%; height:100px; margin:10px 0; padding:10px; }
button { padding:8px 16px; cursor:pointer; margin-bottom:20px; }
</style>
</head>
<body>
<div class="container">
<h2>Execution Dashboard</h2>

<form method="POST" action="/daily_checkin">
<h3>Progress Update</h3>
<textarea name="completed"></textarea>
<button type="submit">Log Progress</button>
</form>

<form method="POST" action="/add_note">
<h3>Goals / Direction</h3>
<textarea name="note"></textarea>
<button type="submit">Update Goals</button>
</form>

</div>
</body>
</html>
`
